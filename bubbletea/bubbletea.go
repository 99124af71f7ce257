// Package bubbletea provides the Bubble Tea terminal UI for the chat widget.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
)

// Controller is the slice of the conversation coordinator the UI drives.
// Calls may block until the exchange completes, so the model always invokes
// them from a tea.Cmd, never from Update itself.
type Controller interface {
	NewChat(ctx context.Context) error
	Submit(ctx context.Context, text string) error
}

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. Cancelling the context quits the program.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// RenderCommandMsg wraps a coordinator render command for delivery to the
// model.
type RenderCommandMsg struct {
	Command chatbot.RenderCommand
}

// SubmitDoneMsg signals that a submit call returned. Failures have already
// been surfaced through render commands, so the model only uses this for
// bookkeeping.
type SubmitDoneMsg struct {
	Err error
}

// NewChatDoneMsg signals that a new-chat call returned.
type NewChatDoneMsg struct {
	Err error
}
