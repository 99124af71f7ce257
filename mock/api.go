// Package mock provides test doubles for chatbot interfaces using function fields.
package mock

import (
	"context"

	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
)

// Interface compliance checks.
var (
	_ chatbot.API   = (*API)(nil)
	_ chatbot.Store = (*Store)(nil)
)

// API is a test double for chatbot.API.
// Set the function fields for the methods you need.
type API struct {
	StartFn func(ctx context.Context, message *string) (chatbot.StartResult, error)
	SendFn  func(ctx context.Context, threadID, message string) (string, error)
	EndFn   func(ctx context.Context, threadID *string) error
}

// Start delegates to StartFn.
func (a *API) Start(ctx context.Context, message *string) (chatbot.StartResult, error) {
	return a.StartFn(ctx, message)
}

// Send delegates to SendFn.
func (a *API) Send(ctx context.Context, threadID, message string) (string, error) {
	return a.SendFn(ctx, threadID, message)
}

// End delegates to EndFn.
func (a *API) End(ctx context.Context, threadID *string) error {
	return a.EndFn(ctx, threadID)
}
