// Package coordinator implements the request state machine of the chat client.
//
// A Coordinator owns the input buffer, the busy flag, the last error and the
// single in-flight request. Every transition happens on the caller's
// goroutine:
//
//	c.SetInput("Hello, AI!")
//	req, ok := c.Submit()    // Idle -> Sending, user message appended
//	res := req.Run()         // outbound call, may run on another goroutine
//	c.Resolve(res)           // Sending -> Idle, bot message appended
//
// A Coordinator is not safe for concurrent use. Only Request.Run may be
// called from a different goroutine.
package coordinator

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/longkey1/chatbox/internal/chatbox"
	"github.com/longkey1/chatbox/internal/chatbox/conversation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// ErrorText is stored in LastError when an outbound call fails.
	ErrorText = "Error sending message"
	// ErrorReply is the bot message appended when an outbound call fails.
	ErrorReply = "Error: Could not send message."
)

// State is the coordinator's position in the request cycle.
type State int

const (
	Idle State = iota
	Sending
)

// String returns the display name of the state
func (s State) String() string {
	if s == Sending {
		return "sending"
	}
	return "idle"
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for transition and failure logs.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithConversation makes the coordinator append to an existing conversation.
func WithConversation(conv *conversation.Conversation) Option {
	return func(c *Coordinator) {
		if conv != nil {
			c.conv = conv
		}
	}
}

// Coordinator mediates between user input events and the conversation.
type Coordinator struct {
	answerer chatbox.Answerer
	conv     *conversation.Conversation
	logger   zerolog.Logger

	input     string
	busy      bool
	lastError string
	pending   *Request

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// New creates an idle coordinator that sends prompts through answerer.
func New(answerer chatbox.Answerer, opts ...Option) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		answerer: answerer,
		conv:     conversation.New(),
		logger:   log.Logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("session", c.conv.ShortID()).Logger()
	return c
}

// SetInput replaces the input buffer. Edits are accepted in every state.
func (c *Coordinator) SetInput(text string) {
	c.input = text
}

// Input returns the current input buffer
func (c *Coordinator) Input() string {
	return c.input
}

// Busy reports whether an outbound call is unresolved
func (c *Coordinator) Busy() bool {
	return c.busy
}

// Disabled reports whether input and send controls should be shown disabled.
func (c *Coordinator) Disabled() bool {
	return c.busy
}

// State returns Sending while a request is pending, Idle otherwise.
func (c *Coordinator) State() State {
	if c.busy {
		return Sending
	}
	return Idle
}

// LastError returns the error banner text, or "" when there is none.
func (c *Coordinator) LastError() string {
	return c.lastError
}

// Conversation returns the conversation the coordinator appends to.
func (c *Coordinator) Conversation() *conversation.Conversation {
	return c.conv
}

// Pending returns the in-flight request, if any.
func (c *Coordinator) Pending() (*Request, bool) {
	return c.pending, c.pending != nil
}

// CanSubmit reports whether Submit would start a request right now.
func (c *Coordinator) CanSubmit() bool {
	return !c.closed && !c.busy && strings.TrimSpace(c.input) != ""
}

// Submit moves the coordinator from Idle to Sending.
// It appends the user message, clears the input buffer and the last error,
// and returns the request to run. When the trimmed input is empty, a request
// is already pending, or the coordinator is closed, nothing changes and ok
// is false.
func (c *Coordinator) Submit() (req *Request, ok bool) {
	if !c.CanSubmit() {
		if c.busy {
			c.logger.Debug().Msg("submit suppressed while sending")
		}
		return nil, false
	}

	prompt := c.input
	c.conv.Append(chatbox.NewUserMessage(prompt))
	c.input = ""
	c.lastError = ""
	c.busy = true

	req = &Request{
		ID:       uuid.New().String(),
		Prompt:   prompt,
		ctx:      c.ctx,
		answerer: c.answerer,
	}
	c.pending = req

	c.logger.Debug().
		Str("request_id", req.ID).
		Int("messages", c.conv.Len()).
		Msg("request submitted")
	return req, true
}

// Resolve moves the coordinator from Sending back to Idle.
// Results that do not belong to the pending request, and results arriving
// after Close, are dropped and Resolve returns false.
func (c *Coordinator) Resolve(res Result) bool {
	if c.closed {
		c.logger.Debug().Str("request_id", res.RequestID).Msg("result dropped after close")
		return false
	}
	if c.pending == nil || c.pending.ID != res.RequestID {
		c.logger.Debug().Str("request_id", res.RequestID).Msg("result dropped, not pending")
		return false
	}

	if res.Err != nil {
		c.lastError = ErrorText
		c.conv.Append(chatbox.NewBotMessage(ErrorReply))
		c.logger.Warn().Err(res.Err).Str("request_id", res.RequestID).Msg("request failed")
	} else {
		c.conv.Append(chatbox.NewBotMessage(res.Text))
		c.logger.Debug().Str("request_id", res.RequestID).Msg("request resolved")
	}

	c.pending = nil
	c.busy = false
	return true
}

// Send runs one full cycle synchronously: Submit, Run and Resolve.
// It reports whether a request was issued; the outcome is visible through
// LastError and the conversation.
func (c *Coordinator) Send(ctx context.Context) bool {
	req, ok := c.Submit()
	if !ok {
		return false
	}
	c.Resolve(req.RunContext(ctx))
	return true
}

// Close tears the coordinator down. The context of an in-flight request is
// cancelled and any later Resolve is ignored. Close is idempotent.
func (c *Coordinator) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	c.logger.Debug().Bool("pending", c.pending != nil).Msg("coordinator closed")
}
