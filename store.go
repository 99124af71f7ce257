package chatbot

// Store persists the current thread id between runs.
type Store interface {
	// Load returns the stored thread id. An absent value is ("", nil), not
	// an error.
	Load() (string, error)

	// Save replaces the stored thread id.
	Save(threadID string) error

	// Clear removes the stored thread id.
	Clear() error
}
