package chatbot

import "time"

// Session represents one logical conversation with the assistant service.
type Session struct {
	ThreadID     string // assigned exactly once, from the start response
	Active       bool   // true once the session has been opened
	Ended        bool   // true once the server signaled completion
	StartedAt    time.Time
	LastActivity time.Time
}
