package chatbot

// RenderCommand is a sealed interface representing one presentation effect.
// Commands are purely semantic: the coordinator decides what to show, the
// presentation layer owns copy and styling.
// The unexported marker method prevents external implementations.
type RenderCommand interface {
	renderCommand()
}

// EnterConversationView switches the widget from the landing view to the
// conversation view.
type EnterConversationView struct{}

func (EnterConversationView) renderCommand() {}

// AppendUserMessage echoes submitted text into the transcript.
type AppendUserMessage struct {
	Text string
}

func (AppendUserMessage) renderCommand() {}

// AppendBotMessage appends an assistant reply to the transcript.
type AppendBotMessage struct {
	Text string
}

func (AppendBotMessage) renderCommand() {}

// ShowTypingIndicator displays a typing indicator for one in-flight request.
// The matching RemoveTypingIndicator carries the same handle.
type ShowTypingIndicator struct {
	Handle string
}

func (ShowTypingIndicator) renderCommand() {}

// RemoveTypingIndicator removes the indicator identified by Handle.
type RemoveTypingIndicator struct {
	Handle string
}

func (RemoveTypingIndicator) renderCommand() {}

// ShowTimeoutNotice tells the user the session expired after inactivity.
type ShowTimeoutNotice struct{}

func (ShowTimeoutNotice) renderCommand() {}

// ShowErrorNotice surfaces a failed request without ending the session.
type ShowErrorNotice struct {
	Err error
}

func (ShowErrorNotice) renderCommand() {}

// Interface compliance checks.
var (
	_ RenderCommand = EnterConversationView{}
	_ RenderCommand = AppendUserMessage{}
	_ RenderCommand = AppendBotMessage{}
	_ RenderCommand = ShowTypingIndicator{}
	_ RenderCommand = RemoveTypingIndicator{}
	_ RenderCommand = ShowTimeoutNotice{}
	_ RenderCommand = ShowErrorNotice{}
)
