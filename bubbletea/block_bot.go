package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
	"github.com/Oleksandr-Uvarov-AI-D/hands-chatbot/goldmark"
)

var _ MessageBlock = (*BotMessageBlock)(nil)

// BotMessageBlock renders an assistant reply with markdown formatting.
// Replies arrive whole, so the rendered output is cached per width and
// only recomputed on resize.
type BotMessageBlock struct {
	text    string
	theme   chatbot.Theme
	byWidth map[int]string
}

// NewBotMessageBlock creates a BotMessageBlock for one assistant reply.
func NewBotMessageBlock(text string, theme chatbot.Theme) *BotMessageBlock {
	return &BotMessageBlock{
		text:    text,
		theme:   theme,
		byWidth: make(map[int]string),
	}
}

func (b *BotMessageBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *BotMessageBlock) View(width int) string {
	if width <= 0 {
		return b.text
	}
	if cached, ok := b.byWidth[width]; ok {
		return cached
	}
	rendered := goldmark.Render(b.text, width, b.theme)
	b.byWidth[width] = rendered
	return rendered
}
