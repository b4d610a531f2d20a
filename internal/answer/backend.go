package answer

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/longkey1/chatbox/internal/answer/prompt"
	"github.com/longkey1/chatbox/internal/chatbox"
)

var ErrEmptyPrompt = errors.New("prompt is empty")

// Backend produces a completion for a formatted system and user prompt.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Service answers prompts by formatting them through a template and asking
// a backend.
type Service struct {
	backend Backend
	prompt    *prompt.Prompt
	vars      map[string]string
	retriever Retriever
}

var _ chatbox.Answerer = (*Service)(nil)

// NewService creates a service; a nil template means the built-in prompt.
func NewService(backend Backend, tmpl *prompt.Prompt) *Service {
	if tmpl == nil {
		tmpl = prompt.Default()
	}
	return &Service{backend: backend, prompt: tmpl}
}

// WithVars sets extra template placeholders filled on every prompt.
func (s *Service) WithVars(vars map[string]string) *Service {
	s.vars = vars
	return s
}

// WithRetriever looks up related documents for every prompt. They fill the
// {{context}} placeholder, replacing any variable of that name.
func (s *Service) WithRetriever(r Retriever) *Service {
	s.retriever = r
	return s
}

// Answer returns the backend's reply to the user's prompt
func (s *Service) Answer(ctx context.Context, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrEmptyPrompt
	}

	vars := s.vars
	if s.retriever != nil {
		docs, err := s.retriever.Retrieve(ctx, input)
		if err != nil {
			return "", fmt.Errorf("retrieving context: %w", err)
		}
		if len(docs) == 0 {
			return "", ErrNoContext
		}
		vars = make(map[string]string, len(s.vars)+1)
		maps.Copy(vars, s.vars)
		vars["context"] = joinContext(docs)
	}

	system, user, err := s.prompt.Format(input, vars)
	if err != nil {
		return "", fmt.Errorf("formatting prompt: %w", err)
	}

	reply, err := s.backend.Complete(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return reply, nil
}

// EchoBackend replies with the user prompt. It needs no credentials and is
// meant for local development.
type EchoBackend struct{}

// Complete returns the user prompt prefixed with "Echo: "
func (EchoBackend) Complete(ctx context.Context, _ string, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "Echo: " + user, nil
}
