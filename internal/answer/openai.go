package answer

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

const DefaultModel = "gpt-4o-mini"

// OpenAIBackend completes prompts with the OpenAI chat completions API.
type OpenAIBackend struct {
	client openai.Client
	model  string
}

// NewOpenAIBackend creates a backend from the server config. Extra request
// options are appended after the ones derived from cfg.
func NewOpenAIBackend(cfg *Config, extra ...option.RequestOption) *OpenAIBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.OpenaiAPIKey)),
	}
	if trimmed := strings.TrimRight(cfg.OpenaiBaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	opts = append(opts, extra...)

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	return &OpenAIBackend{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// WithModel returns a copy of the backend that uses model
func (b *OpenAIBackend) WithModel(model string) *OpenAIBackend {
	cp := *b
	if model = strings.TrimSpace(model); model != "" {
		cp.model = model
	}
	return &cp
}

// Model returns the model name used for completions
func (b *OpenAIBackend) Model() string {
	return b.model
}

// Complete sends the system and user messages and returns the first choice.
func (b *OpenAIBackend) Complete(ctx context.Context, system, user string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(user))

	start := time.Now()
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(b.model),
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	log.Debug().
		Str("model", b.model).
		Dur("elapsed", time.Since(start)).
		Int("choices", len(resp.Choices)).
		Msg("chat completion finished")

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the ids of the models the API key can use, sorted.
func (b *OpenAIBackend) ListModels(ctx context.Context) ([]string, error) {
	page, err := b.client.Models.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids, nil
}
