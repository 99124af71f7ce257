// Package coordinator owns the session lifecycle: when a conversation
// starts, how submits interact with an in-flight start request, when an
// idle session expires, and how a server-signaled completion is enforced
// client-side.
package coordinator

import (
	"context"
	"strings"
	"sync"
	"time"

	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultIdleTimeout matches the service's 600 second inactivity window.
	DefaultIdleTimeout = 10 * time.Minute

	// DefaultGreeting opens an explicitly requested new chat.
	DefaultGreeting = "Hello! How can I help you today?"

	// DefaultCompletionNotice replaces the completion sentinel in the transcript.
	DefaultCompletionNotice = "This conversation has ended. Start a new chat to continue."

	endNotifyTimeout = 10 * time.Second
)

// pendingMessage is one submit parked while the start request is in flight.
// done is buffered so the resolver never blocks on a caller that stopped
// waiting.
type pendingMessage struct {
	text   string
	handle string
	done   chan error
}

// Coordinator drives the conversation state machine. All methods are safe
// for concurrent use.
//
// Every transition runs under one mutex, which is never held across a
// network call: calls snapshot the session generation before dispatching
// and re-check it before applying their result, so a reply that lands
// after the session ended, expired, or was replaced is dropped instead of
// resurrecting it.
//
// Render commands are emitted while the mutex is held, which makes their
// order match transition order. The render handler must not call back into
// the Coordinator.
type Coordinator struct {
	api    chatbot.API
	store  chatbot.Store
	render func(chatbot.RenderCommand)
	logger zerolog.Logger

	idleTimeout      time.Duration
	greeting         string
	completionNotice string

	mu         sync.Mutex
	state      chatbot.State
	session    chatbot.Session
	gen        string // fresh uuid per session, for stale-result detection
	pending    []*pendingMessage
	idleTimer  *time.Timer
	timerEpoch uint64 // bumped on every arm/stop; stale fires check it
	closed     bool

	sessionCtx    context.Context
	sessionCancel context.CancelFunc

	wg sync.WaitGroup // end notifications in flight
}

// Option configures a [Coordinator].
type Option func(*Coordinator)

// WithStore sets the thread id store. Without one, nothing persists across
// runs. Store contents are advisory: coordinator state owns the id, and
// store failures are logged, never fatal.
func WithStore(s chatbot.Store) Option {
	return func(c *Coordinator) { c.store = s }
}

// WithRenderHandler sets the callback that receives each render command.
// If nil or not set, commands are silently discarded.
func WithRenderHandler(h func(chatbot.RenderCommand)) Option {
	return func(c *Coordinator) {
		if h != nil {
			c.render = h
		}
	}
}

// WithIdleTimeout sets the inactivity window after which the session
// expires. Zero or negative disables expiry.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.idleTimeout = d }
}

// WithGreeting sets the bot message that opens an explicit new chat.
// Empty suppresses it.
func WithGreeting(s string) Option {
	return func(c *Coordinator) { c.greeting = s }
}

// WithCompletionNotice sets the bot message rendered in place of the
// completion sentinel.
func WithCompletionNotice(s string) Option {
	return func(c *Coordinator) { c.completionNotice = s }
}

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// New creates a Coordinator in the Idle state. When a store is configured
// and holds a thread id, the previous session is resumed instead: the
// coordinator starts Open and the next submit goes straight to a send.
func New(api chatbot.API, opts ...Option) *Coordinator {
	c := &Coordinator{
		api:              api,
		render:           func(chatbot.RenderCommand) {},
		logger:           zerolog.Nop(),
		idleTimeout:      DefaultIdleTimeout,
		greeting:         DefaultGreeting,
		completionNotice: DefaultCompletionNotice,
		state:            chatbot.StateIdle,
	}
	for _, o := range opts {
		o(c)
	}
	if c.store != nil {
		id, err := c.store.Load()
		switch {
		case err != nil:
			c.logger.Warn().Err(err).Msg("stored thread id unreadable")
		case id != "":
			c.mu.Lock()
			c.resumeLocked(id)
			c.mu.Unlock()
		}
	}
	return c
}

// NewChat handles the explicit "start fresh" intent. From Idle, Ended, or
// Expired it enters the conversation view, renders the greeting, and opens
// a session without an initial exchange. While a session is opening or
// open it is a no-op, which keeps at most one start call in flight.
func (c *Coordinator) NewChat(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return chatbot.ErrConversationOver
	}
	if c.state == chatbot.StateOpening || c.state == chatbot.StateOpen {
		c.logger.Debug().Stringer("state", c.state).Msg("new chat ignored, session already live")
		c.mu.Unlock()
		return nil
	}

	gen := c.beginSessionLocked()
	c.render(chatbot.EnterConversationView{})
	if c.greeting != "" {
		c.render(chatbot.AppendBotMessage{Text: c.greeting})
	}
	sctx := c.sessionCtx
	c.mu.Unlock()

	callCtx, cancel := sessionScoped(ctx, sctx)
	defer cancel()
	result, err := c.api.Start(callCtx, nil)

	c.mu.Lock()
	if c.staleOpeningLocked(gen) {
		c.logger.Debug().Msg("start result for a stale session dropped")
		c.mu.Unlock()
		return chatbot.ErrConversationOver
	}
	if err != nil {
		c.render(chatbot.ShowErrorNotice{Err: err})
		c.failOpeningLocked(err)
		c.mu.Unlock()
		return err
	}
	c.completeOpeningLocked(result.ThreadID)
	queue := c.takePendingLocked()
	threadID := c.session.ThreadID
	sctx = c.sessionCtx
	c.mu.Unlock()

	c.drainPending(queue, sctx, gen, threadID)
	return nil
}

// Submit delivers one user message. The echo and typing indicator are
// rendered immediately; the call then blocks until the assistant reply is
// rendered or the attempt fails. From Idle, Ended, or Expired the submit
// opens a fresh session carrying the text as the initial exchange; while a
// session is opening the message parks in FIFO order behind the start
// call; while it is open the message dispatches at once.
func (c *Coordinator) Submit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return chatbot.ErrEmptyMessage
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return chatbot.ErrConversationOver
	}
	c.touchLocked()
	handle := uuid.NewString()

	switch c.state {
	case chatbot.StateOpen:
		c.render(chatbot.AppendUserMessage{Text: text})
		c.render(chatbot.ShowTypingIndicator{Handle: handle})
		gen, threadID, sctx := c.gen, c.session.ThreadID, c.sessionCtx
		c.mu.Unlock()
		return c.deliver(ctx, sctx, gen, threadID, text, handle)

	case chatbot.StateOpening:
		c.render(chatbot.AppendUserMessage{Text: text})
		c.render(chatbot.ShowTypingIndicator{Handle: handle})
		pm := &pendingMessage{text: text, handle: handle, done: make(chan error, 1)}
		c.pending = append(c.pending, pm)
		c.mu.Unlock()
		select {
		case err := <-pm.done:
			return err
		case <-ctx.Done():
			// The message stays parked and is still delivered in order.
			return ctx.Err()
		}

	default: // Idle, Ended, Expired: this submit owns the start call.
		c.render(chatbot.AppendUserMessage{Text: text})
		c.render(chatbot.ShowTypingIndicator{Handle: handle})
		gen := c.beginSessionLocked()
		sctx := c.sessionCtx
		c.mu.Unlock()
		return c.openWithMessage(ctx, sctx, gen, text, handle)
	}
}

// ThreadID returns the current session identifier, if one is assigned.
func (c *Coordinator) ThreadID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.ThreadID == "" {
		return "", false
	}
	return c.session.ThreadID, true
}

// State returns the current lifecycle state.
func (c *Coordinator) State() chatbot.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a snapshot of the current session.
func (c *Coordinator) Session() chatbot.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Close stops the idle timer, cancels in-flight sends, notifies the
// service when a session was live, and waits for the notification to
// finish. The coordinator rejects all intents afterwards.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.stopIdleTimerLocked()
	if c.state == chatbot.StateOpening || c.state == chatbot.StateOpen {
		c.notifyEndLocked()
	}
	if c.sessionCancel != nil {
		c.sessionCancel()
	}
	for _, pm := range c.takePendingLocked() {
		pm.done <- chatbot.ErrConversationOver
	}
	c.mu.Unlock()

	c.wg.Wait()
	return nil
}

// openWithMessage runs the start call that a submit owns and then drains
// any messages that parked behind it.
func (c *Coordinator) openWithMessage(ctx, sctx context.Context, gen, text, handle string) error {
	callCtx, cancel := sessionScoped(ctx, sctx)
	defer cancel()
	result, err := c.api.Start(callCtx, &text)

	c.mu.Lock()
	if c.staleOpeningLocked(gen) {
		c.render(chatbot.RemoveTypingIndicator{Handle: handle})
		c.logger.Debug().Msg("start result for a stale session dropped")
		c.mu.Unlock()
		return chatbot.ErrConversationOver
	}
	if err != nil {
		c.render(chatbot.RemoveTypingIndicator{Handle: handle})
		c.render(chatbot.ShowErrorNotice{Err: err})
		c.failOpeningLocked(err)
		c.mu.Unlock()
		return err
	}
	c.completeOpeningLocked(result.ThreadID)
	c.render(chatbot.AppendBotMessage{Text: result.Reply})
	c.render(chatbot.RemoveTypingIndicator{Handle: handle})
	queue := c.takePendingLocked()
	threadID := c.session.ThreadID
	sctx = c.sessionCtx
	c.mu.Unlock()

	c.drainPending(queue, sctx, gen, threadID)
	return nil
}

// deliver dispatches one message to an open session and applies the
// outcome: a normal reply renders verbatim, the completion sentinel ends
// the session, and a failure leaves the session open so the user can
// resend.
func (c *Coordinator) deliver(ctx, sctx context.Context, gen, threadID, text, handle string) error {
	c.mu.Lock()
	if c.staleOpenLocked(gen) {
		c.render(chatbot.RemoveTypingIndicator{Handle: handle})
		c.logger.Debug().Str("thread_id", threadID).Msg("message abandoned, session no longer open")
		c.mu.Unlock()
		return chatbot.ErrConversationOver
	}
	c.mu.Unlock()

	callCtx, cancel := sessionScoped(ctx, sctx)
	defer cancel()
	reply, err := c.api.Send(callCtx, threadID, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.staleOpenLocked(gen) {
		c.render(chatbot.RemoveTypingIndicator{Handle: handle})
		c.logger.Debug().Str("thread_id", threadID).Msg("reply for a stale session dropped")
		return chatbot.ErrConversationOver
	}
	if err != nil {
		c.render(chatbot.RemoveTypingIndicator{Handle: handle})
		c.render(chatbot.ShowErrorNotice{Err: err})
		c.logger.Warn().Err(err).Str("thread_id", threadID).Msg("message not delivered")
		return err
	}
	if reply == chatbot.CompletionSentinel {
		c.render(chatbot.AppendBotMessage{Text: c.completionNotice})
		c.render(chatbot.RemoveTypingIndicator{Handle: handle})
		c.endSessionLocked()
		return nil
	}
	c.render(chatbot.AppendBotMessage{Text: reply})
	c.render(chatbot.RemoveTypingIndicator{Handle: handle})
	return nil
}

// drainPending delivers parked messages in submission order.
func (c *Coordinator) drainPending(queue []*pendingMessage, sctx context.Context, gen, threadID string) {
	for _, pm := range queue {
		err := c.deliver(context.Background(), sctx, gen, threadID, pm.text, pm.handle)
		pm.done <- err
	}
}

// beginSessionLocked replaces the session with a fresh one in the Opening
// state, cancels calls still tied to the previous session, and restarts
// the idle timer.
func (c *Coordinator) beginSessionLocked() string {
	now := time.Now()
	c.session = chatbot.Session{StartedAt: now, LastActivity: now}
	c.gen = uuid.NewString()
	c.state = chatbot.StateOpening
	if c.sessionCancel != nil {
		c.sessionCancel()
	}
	c.sessionCtx, c.sessionCancel = context.WithCancel(context.Background())
	c.restartIdleTimerLocked()
	c.logger.Debug().Msg("session opening")
	return c.gen
}

// resumeLocked adopts a stored thread id as an already-open session.
func (c *Coordinator) resumeLocked(threadID string) {
	now := time.Now()
	c.session = chatbot.Session{
		ThreadID:     threadID,
		Active:       true,
		StartedAt:    now,
		LastActivity: now,
	}
	c.gen = uuid.NewString()
	c.state = chatbot.StateOpen
	c.sessionCtx, c.sessionCancel = context.WithCancel(context.Background())
	c.restartIdleTimerLocked()
	c.logger.Info().Str("thread_id", threadID).Msg("session resumed")
}

// completeOpeningLocked records the assigned thread id and moves to Open.
func (c *Coordinator) completeOpeningLocked(threadID string) {
	c.session.ThreadID = threadID
	c.session.Active = true
	c.state = chatbot.StateOpen
	if c.store != nil {
		if err := c.store.Save(threadID); err != nil {
			c.logger.Warn().Err(err).Msg("thread id not persisted")
		}
	}
	c.logger.Info().Str("thread_id", threadID).Msg("session open")
}

// failOpeningLocked reverts to Idle so the next intent retries the full
// start sequence, and abandons parked messages with one error notice each.
func (c *Coordinator) failOpeningLocked(err error) {
	c.state = chatbot.StateIdle
	c.session = chatbot.Session{}
	c.stopIdleTimerLocked()
	if c.sessionCancel != nil {
		c.sessionCancel()
	}
	for _, pm := range c.takePendingLocked() {
		c.render(chatbot.RemoveTypingIndicator{Handle: pm.handle})
		c.render(chatbot.ShowErrorNotice{Err: err})
		pm.done <- err
	}
	c.logger.Warn().Err(err).Msg("session start failed")
}

// endSessionLocked applies the server's completion signal: the idle timer
// is cancelled, in-flight sends are aborted, and the service is notified.
func (c *Coordinator) endSessionLocked() {
	c.session.Ended = true
	c.state = chatbot.StateEnded
	c.stopIdleTimerLocked()
	if c.sessionCancel != nil {
		c.sessionCancel()
	}
	c.notifyEndLocked()
	c.logger.Info().Str("thread_id", c.session.ThreadID).Msg("conversation ended by assistant")
}

// expire is the idle timer callback. A stale fire, from a timer that was
// re-armed or stopped while the callback waited on the mutex, is a no-op.
func (c *Coordinator) expire(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.timerEpoch != epoch {
		return
	}
	if c.state != chatbot.StateOpening && c.state != chatbot.StateOpen {
		return
	}

	for _, pm := range c.takePendingLocked() {
		c.render(chatbot.RemoveTypingIndicator{Handle: pm.handle})
		pm.done <- chatbot.ErrConversationOver
	}
	c.render(chatbot.ShowTimeoutNotice{})
	c.state = chatbot.StateExpired
	c.idleTimer = nil
	if c.sessionCancel != nil {
		c.sessionCancel()
	}
	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			c.logger.Warn().Err(err).Msg("stored thread id not cleared")
		}
	}
	c.notifyEndLocked()
	c.logger.Info().Str("thread_id", c.session.ThreadID).Dur("idle", c.idleTimeout).Msg("session expired after inactivity")
}

// notifyEndLocked tells the service the conversation is over. Best-effort:
// the failure is logged and swallowed, never surfaced to the caller.
func (c *Coordinator) notifyEndLocked() {
	var threadID *string
	if c.session.ThreadID != "" {
		id := c.session.ThreadID
		threadID = &id
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), endNotifyTimeout)
		defer cancel()
		if err := c.api.End(ctx, threadID); err != nil {
			c.logger.Warn().Err(err).Msg("end notification discarded")
		}
	}()
}

// touchLocked records user activity and pushes the idle deadline out.
func (c *Coordinator) touchLocked() {
	c.session.LastActivity = time.Now()
	c.restartIdleTimerLocked()
}

// restartIdleTimerLocked arms a fresh single-shot timer, cancelling any
// previous one. Bumping the epoch invalidates callbacks already fired but
// not yet run.
func (c *Coordinator) restartIdleTimerLocked() {
	c.stopIdleTimerLocked()
	if c.idleTimeout <= 0 {
		return
	}
	epoch := c.timerEpoch
	c.idleTimer = time.AfterFunc(c.idleTimeout, func() { c.expire(epoch) })
}

func (c *Coordinator) stopIdleTimerLocked() {
	c.timerEpoch++
	if c.idleTimer != nil {
		c.idleTimer.Stop()
		c.idleTimer = nil
	}
}

func (c *Coordinator) takePendingLocked() []*pendingMessage {
	queue := c.pending
	c.pending = nil
	return queue
}

// staleOpeningLocked reports whether a start result no longer applies.
func (c *Coordinator) staleOpeningLocked(gen string) bool {
	return c.closed || c.gen != gen || c.state != chatbot.StateOpening
}

// staleOpenLocked reports whether a send result no longer applies.
func (c *Coordinator) staleOpenLocked(gen string) bool {
	return c.closed || c.gen != gen || c.state != chatbot.StateOpen
}

// sessionScoped derives a context cancelled when either the caller's
// context or the session is done.
func sessionScoped(ctx, session context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(session, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
