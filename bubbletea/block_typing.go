package bubbletea

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*TypingIndicatorBlock)(nil)

// TypingIndicatorBlock renders an animated "assistant is typing" line while
// a reply is in flight. Each indicator owns its spinner; tick messages carry
// the spinner's ID, so forwarding a tick to every block animates only the
// indicator it belongs to.
type TypingIndicatorBlock struct {
	handle  string
	spinner spinner.Model
	styles  Styles
}

// NewTypingIndicatorBlock creates a TypingIndicatorBlock correlated by handle.
func NewTypingIndicatorBlock(handle string, styles Styles) *TypingIndicatorBlock {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner
	return &TypingIndicatorBlock{handle: handle, spinner: sp, styles: styles}
}

// Handle returns the correlation handle this indicator was created with.
func (b *TypingIndicatorBlock) Handle() string { return b.handle }

// Tick starts the spinner animation. The returned command must be dispatched
// when the block is added to the transcript.
func (b *TypingIndicatorBlock) Tick() tea.Cmd {
	return b.spinner.Tick
}

func (b *TypingIndicatorBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd
	}
	return b, nil
}

func (b *TypingIndicatorBlock) View(width int) string {
	content := b.spinner.View() + b.styles.Muted.Render("assistant is typing")
	return lipgloss.NewStyle().Width(width).Render(content)
}
