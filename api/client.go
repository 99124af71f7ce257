package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
	"github.com/rs/zerolog"
)

// Interface compliance check.
var _ chatbot.API = (*Client)(nil)

// Client implements [chatbot.API] for the remote session service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. Zero disables the bound and leaves
// cancellation entirely to the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a new [Client] for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		logger:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start opens a new conversation thread. A nil message is sent as an
// explicit null and the reply field is not expected back.
func (c *Client) Start(ctx context.Context, message *string) (chatbot.StartResult, error) {
	var resp startResponse
	if err := c.postJSON(ctx, startPath, startRequest{Message: message}, &resp); err != nil {
		return chatbot.StartResult{}, err
	}
	if resp.ThreadID == "" {
		return chatbot.StartResult{}, fmt.Errorf("api: start response missing thread_id: %w", chatbot.ErrMalformedResponse)
	}

	result := chatbot.StartResult{ThreadID: resp.ThreadID}
	if message != nil {
		if resp.Message == nil {
			return chatbot.StartResult{}, fmt.Errorf("api: start response missing message: %w", chatbot.ErrMalformedResponse)
		}
		result.Reply = *resp.Message
	}
	c.logger.Debug().Str("thread_id", result.ThreadID).Bool("with_message", message != nil).Msg("conversation started")
	return result, nil
}

// Send delivers one user message to the thread and returns the assistant
// reply verbatim.
func (c *Client) Send(ctx context.Context, threadID, message string) (string, error) {
	var resp chatResponse
	if err := c.postJSON(ctx, chatPath, chatRequest{Message: message, ThreadID: threadID}, &resp); err != nil {
		return "", err
	}
	if resp.Message == nil {
		return "", fmt.Errorf("api: chat response missing message: %w", chatbot.ErrMalformedResponse)
	}
	c.logger.Debug().Str("thread_id", threadID).Int("reply_len", len(*resp.Message)).Msg("chat reply received")
	return *resp.Message, nil
}

// End notifies the service that the conversation is over. The response
// body is discarded; only the status matters.
func (c *Client) End(ctx context.Context, threadID *string) error {
	if err := c.postJSON(ctx, endPath, endRequest{ThreadID: threadID}, nil); err != nil {
		return err
	}
	c.logger.Debug().Msg("conversation end acknowledged")
	return nil
}

// Health probes the service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return newStatusError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// postJSON sends one JSON request and decodes the response into respBody.
// A nil respBody discards the response body.
func (c *Client) postJSON(ctx context.Context, path string, reqBody, respBody any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}
	defer resp.Body.Close()

	if !is2xx(resp.StatusCode) {
		return newStatusError(resp)
	}
	if respBody == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

// requestContext derives a bounded context when a timeout is configured.
func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

func newStatusError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		body = nil
	}
	return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
