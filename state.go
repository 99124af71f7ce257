package chatbot

// State identifies where a session is in its lifecycle.
type State int

const (
	StateIdle    State = iota // No session yet; the next intent opens one.
	StateOpening              // Start request in flight; submits park behind it.
	StateOpen                 // Thread id assigned; submits dispatch immediately.
	StateEnded                // Server signaled completion; next submit opens fresh.
	StateExpired              // Idle timeout fired; next submit opens fresh.
)

// String returns the lowercase state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateEnded:
		return "ended"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}
