package chatbot

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrMalformedResponse indicates a server response missing a required field.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrEmptyMessage indicates a submit with no visible characters.
	ErrEmptyMessage = errors.New("empty message")

	// ErrConversationOver indicates the session ended or expired before the
	// operation could complete.
	ErrConversationOver = errors.New("conversation over")
)
