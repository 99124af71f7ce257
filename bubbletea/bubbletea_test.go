package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
	bt "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot/bubbletea"
	"github.com/stretchr/testify/require"
)

// controllerStub is a Controller test double. Unset functions are no-ops.
type controllerStub struct {
	newChatFn func(ctx context.Context) error
	submitFn  func(ctx context.Context, text string) error
}

func (s *controllerStub) NewChat(ctx context.Context) error {
	if s.newChatFn == nil {
		return nil
	}
	return s.newChatFn(ctx)
}

func (s *controllerStub) Submit(ctx context.Context, text string) error {
	if s.submitFn == nil {
		return nil
	}
	return s.submitFn(ctx, text)
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, ctrl bt.Controller) bt.Model {
	t.Helper()
	return initModelWithSize(t, ctrl, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, ctrl bt.Controller, width, height int) bt.Model {
	t.Helper()
	m := bt.New(chatbot.DefaultTheme())
	m.Controller = ctrl
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// render delivers one coordinator command to the model, as the render
// listener would.
func render(t *testing.T, m bt.Model, cmd chatbot.RenderCommand) bt.Model {
	t.Helper()
	return updateModel(t, m, bt.RenderCommandMsg{Command: cmd})
}

// typeString types s into the model one rune at a time.
func typeString(t *testing.T, m bt.Model, s string) bt.Model {
	t.Helper()
	for _, r := range s {
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}
