// Package api implements [chatbot.API] over the remote session service's
// HTTP endpoints.
//
// The wire format is small JSON bodies on three POST endpoints plus a GET
// health probe. Optional fields are pointers without omitempty because the
// server distinguishes an explicit null from an absent field.
package api

import (
	"fmt"
	"time"
)

const (
	startPath  = "/start"
	chatPath   = "/chat"
	endPath    = "/end_conversation"
	healthPath = "/health"

	defaultTimeout = 120 * time.Second
	maxErrorBody   = 2048
)

// startRequest is the JSON body for the start endpoint. A nil Message
// serializes as an explicit null, which opens the thread without an
// initial exchange.
type startRequest struct {
	Message *string `json:"message"`
}

// startResponse mirrors the start endpoint reply. Message is only present
// when the request carried an initial message.
type startResponse struct {
	ThreadID string  `json:"thread_id"`
	Message  *string `json:"message"`
}

type chatRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
}

// chatResponse mirrors the chat endpoint reply. Message is a pointer so a
// missing field is distinguishable from an empty reply.
type chatResponse struct {
	Message *string `json:"message"`
}

// endRequest is the JSON body for the end_conversation endpoint. ThreadID
// serializes as null when no thread was ever assigned.
type endRequest struct {
	ThreadID *string `json:"thread_id"`
}

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Status int
	Body   string // response body, truncated
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: HTTP %d", e.Status)
	}
	return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Body)
}
