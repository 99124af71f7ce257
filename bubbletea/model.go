package bubbletea

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
)

var _ tea.Model = Model{}

// renderBuffer sizes the command queue between the coordinator and the
// event loop. The loop drains continuously, so the buffer only has to
// absorb short bursts.
const renderBuffer = 256

// timeoutNotice is the transcript text shown when the session expires.
const timeoutNotice = "Session timed out after inactivity. Send a message to start a new conversation."

// Model is the Bubble Tea model for the chat widget.
type Model struct {
	// Controller handles conversation intents. Set it after New and before
	// Run; the coordinator is usually constructed with this model's
	// RenderHandler, so the two are wired in that order.
	Controller Controller
	// Input is the message input. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript area. Exported for test access.
	Viewport viewport.Model

	theme  chatbot.Theme
	styles Styles

	renderCh chan chatbot.RenderCommand

	blocks   []MessageBlock
	landing  bool
	inflight int
	ready    bool
}

// New creates a TUI Model.
func New(theme chatbot.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:    ti,
		theme:    theme,
		styles:   NewStyles(theme),
		renderCh: make(chan chatbot.RenderCommand, renderBuffer),
		landing:  true,
	}
}

// RenderHandler returns the callback to register as the coordinator's
// render handler. Commands are queued for the event loop; the send never
// blocks, so once the program exits and stops draining, late commands are
// dropped instead of wedging the coordinator.
func (m Model) RenderHandler() func(chatbot.RenderCommand) {
	ch := m.renderCh
	return func(cmd chatbot.RenderCommand) {
		select {
		case ch <- cmd:
		default:
		}
	}
}

// Landing returns whether the model still shows the landing view.
func (m Model) Landing() bool { return m.landing }

// InFlight returns the number of submits awaiting a reply.
func (m Model) InFlight() int { return m.inflight }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForRender(m.renderCh))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case RenderCommandMsg:
		var cmd tea.Cmd
		m, cmd = m.applyRenderCommand(msg.Command)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		cmds = append(cmds, listenForRender(m.renderCh))
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case SubmitDoneMsg:
		// Failures already arrived as error notices through render
		// commands; only the in-flight count changes here.
		if m.inflight > 0 {
			m.inflight--
		}
		return m, nil

	case NewChatDoneMsg:
		return m, nil

	case spinner.TickMsg:
		// Ticks carry the spinner's ID, so every indicator can see the
		// message and only the owner advances.
		for i, block := range m.blocks {
			updated, cmd := block.Update(msg)
			m.blocks[i] = updated
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		m.Viewport.SetContent(m.renderContent())
		return m, tea.Batch(cmds...)
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.landing {
		return m.landingView()
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) landingView() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(m.styles.Accent.Render("hands chatbot"))
	b.WriteString("\n\n  ")
	b.WriteString(m.styles.Muted.Render("Enter starts a conversation. Typing a message sends it straight away."))
	b.WriteString("\n\n  ")
	b.WriteString(m.Input.View())
	b.WriteString("\n\n  ")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputHeight := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputHeight - statusHeight - borderHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}

	// Re-render so blocks re-wrap at the new width.
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyCtrlN:
		return m.startNewChat()

	case tea.KeyEnter:
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			if m.landing {
				return m.startNewChat()
			}
			return m, nil
		}
		return m.submitInput(text)
	}

	// Keys go to both the input (typing) and the viewport (scrolling).
	// Only non-character keys reach the viewport to avoid conflicts
	// ('j'/'k' are viewport scroll AND text characters).
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// startNewChat dispatches the explicit new-chat intent. The input stays
// usable while the start call runs.
func (m Model) startNewChat() (tea.Model, tea.Cmd) {
	if m.Controller == nil {
		return m, nil
	}
	ctrl := m.Controller
	return m, func() tea.Msg {
		return NewChatDoneMsg{Err: ctrl.NewChat(context.Background())}
	}
}

// submitInput dispatches one message. The transcript echo arrives through
// render commands, not from here, so the submit path has a single source
// of truth for ordering.
func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	if m.Controller == nil {
		return m, nil
	}
	m.Input.SetValue("")
	m.inflight++
	ctrl := m.Controller
	return m, func() tea.Msg {
		return SubmitDoneMsg{Err: ctrl.Submit(context.Background(), text)}
	}
}

// applyRenderCommand folds one coordinator command into the transcript.
// The returned command, when not nil, starts a new indicator's spinner.
func (m Model) applyRenderCommand(cmd chatbot.RenderCommand) (Model, tea.Cmd) {
	switch c := cmd.(type) {
	case chatbot.EnterConversationView:
		// An explicit new chat opens with a clean transcript.
		m.blocks = nil
		m.landing = false
		return m, nil

	case chatbot.AppendUserMessage:
		m.landing = false
		m.blocks = append(m.blocks, NewUserMessageBlock(c.Text, m.styles))
		return m, nil

	case chatbot.AppendBotMessage:
		m.landing = false
		m.blocks = append(m.blocks, NewBotMessageBlock(c.Text, m.theme))
		return m, nil

	case chatbot.ShowTypingIndicator:
		m.landing = false
		block := NewTypingIndicatorBlock(c.Handle, m.styles)
		m.blocks = append(m.blocks, block)
		return m, block.Tick()

	case chatbot.RemoveTypingIndicator:
		return m.removeIndicator(c.Handle), nil

	case chatbot.ShowTimeoutNotice:
		m.blocks = append(m.blocks, NewNoticeBlock(timeoutNotice, m.styles))
		return m, nil

	case chatbot.ShowErrorNotice:
		m.blocks = append(m.blocks, NewErrorBlock(c.Err, m.styles))
		return m, nil
	}
	return m, nil
}

func (m Model) removeIndicator(handle string) Model {
	for i, block := range m.blocks {
		if ind, ok := block.(*TypingIndicatorBlock); ok && ind.Handle() == handle {
			m.blocks = append(m.blocks[:i], m.blocks[i+1:]...)
			return m
		}
	}
	return m
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.inflight > 0 {
		return m.styles.Muted.Render("Waiting for a reply...")
	}
	return m.styles.Muted.Render("Enter to send, Ctrl+N for a new chat, Ctrl+C to quit")
}

// listenForRender waits for the next render command from the coordinator.
func listenForRender(ch <-chan chatbot.RenderCommand) tea.Cmd {
	return func() tea.Msg {
		return RenderCommandMsg{Command: <-ch}
	}
}
