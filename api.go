package chatbot

import "context"

// CompletionSentinel is the exact chat reply the server sends when the
// assistant considers the conversation complete.
const CompletionSentinel = "True"

// StartResult carries the outcome of a start call.
type StartResult struct {
	ThreadID string
	Reply    string // assistant reply; empty when the start carried no message
}

// API is the client interface to the remote session service.
type API interface {
	// Start opens a new conversation thread. A nil message opens the thread
	// without an initial exchange. A non-nil message is answered in the same
	// call and the reply is returned alongside the thread id.
	Start(ctx context.Context, message *string) (StartResult, error)

	// Send delivers one user message to an existing thread and returns the
	// assistant reply verbatim.
	Send(ctx context.Context, threadID, message string) (string, error)

	// End notifies the server that the conversation is over. The thread id
	// is nil when no thread was ever assigned.
	End(ctx context.Context, threadID *string) error
}
