// Package chatbox provides the core abstractions shared by the chat client.
// The conversation store, the request coordinator and the transport all
// speak in terms of the Message and Answerer types defined here.
package chatbox

import (
	"context"
	"errors"
)

// ErrOutboundCall is the single failure kind surfaced by an outbound call.
// Network errors, non-2xx statuses, malformed bodies and timeouts all wrap it.
var ErrOutboundCall = errors.New("outbound call failed")

// Answerer sends one prompt to the answering endpoint and returns the reply.
//
// Example usage:
//
//	client := transport.NewClient(cfg)
//	reply, err := client.Answer(ctx, "Hello, AI!")
type Answerer interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

// AnswererFunc adapts a plain function to the Answerer interface.
type AnswererFunc func(ctx context.Context, prompt string) (string, error)

// Answer calls f(ctx, prompt).
func (f AnswererFunc) Answer(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type requestIDKey struct{}

// WithRequestID attaches the id of the outbound call to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id attached by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
