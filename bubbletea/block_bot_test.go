package bubbletea_test

import (
	"strings"
	"testing"

	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
	bt "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestBotMessageBlock_View(t *testing.T) {
	t.Parallel()

	t.Run("renders markdown without markers", func(t *testing.T) {
		t.Parallel()
		block := bt.NewBotMessageBlock("Your refund was **approved** today.", chatbot.DefaultTheme())
		view := block.View(80)
		assert.Contains(t, view, "approved")
		assert.NotContains(t, view, "**")
	})

	t.Run("wraps long replies to width", func(t *testing.T) {
		t.Parallel()
		longText := "short words that keep going and going beyond the viewport width easily"
		block := bt.NewBotMessageBlock(longText, chatbot.DefaultTheme())
		view := block.View(30)
		assert.Contains(t, view, "easily")
		assert.Greater(t, len(strings.Split(view, "\n")), 1)
	})

	t.Run("returns raw text without a width", func(t *testing.T) {
		t.Parallel()
		block := bt.NewBotMessageBlock("plain reply", chatbot.DefaultTheme())
		assert.Equal(t, "plain reply", block.View(0))
	})
}
