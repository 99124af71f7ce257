package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
)

// Styles maps a Theme to lipgloss styles for transcript rendering.
type Styles struct {
	UserMsg lipgloss.Style
	BotMsg  lipgloss.Style
	Spinner lipgloss.Style
	Error   lipgloss.Style
	Notice  lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t chatbot.Theme) Styles {
	return Styles{
		UserMsg: lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		BotMsg:  lipgloss.NewStyle().Foreground(ansiColor(t.BotMsg)),
		Spinner: lipgloss.NewStyle().Foreground(ansiColor(t.Spinner)),
		Error:   lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Notice:  lipgloss.NewStyle().Foreground(ansiColor(t.Notice)).Italic(true),
		Muted:   lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:  lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
