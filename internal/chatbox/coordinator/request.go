package coordinator

import (
	"context"
	"fmt"

	"github.com/longkey1/chatbox/internal/chatbox"
)

// Request is the single outbound call issued by one Submit.
type Request struct {
	ID     string
	Prompt string

	ctx      context.Context
	answerer chatbox.Answerer
}

// Result is the outcome of a Request, handed back to Coordinator.Resolve.
type Result struct {
	RequestID string
	Text      string
	Err       error
}

// Run performs the outbound call. It is safe to call from another goroutine.
func (r *Request) Run() Result {
	return r.RunContext(context.Background())
}

// RunContext is like Run but also stops when ctx is done.
func (r *Request) RunContext(ctx context.Context) Result {
	ctx, cancel := mergeContext(r.ctx, ctx)
	defer cancel()

	text, err := r.answerer.Answer(chatbox.WithRequestID(ctx, r.ID), r.Prompt)
	if err != nil {
		return Result{
			RequestID: r.ID,
			Err:       fmt.Errorf("%w: %w", chatbox.ErrOutboundCall, err),
		}
	}
	return Result{RequestID: r.ID, Text: text}
}

// mergeContext returns a context cancelled when either parent is done.
func mergeContext(a, b context.Context) (context.Context, context.CancelFunc) {
	if a == nil {
		a = context.Background()
	}
	ctx, cancel := context.WithCancel(b)
	stop := context.AfterFunc(a, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
