package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

const DefaultEmbeddingModel = openai.EmbeddingModelTextEmbedding3Small

// OpenAIEmbedder embeds texts with the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client     openai.Client
	model      string
	dimensions int
}

var _ Embedder = (*OpenAIEmbedder)(nil)

// NewOpenAIEmbedder creates an embedder sharing the server's key, base URL
// and timeout.
func NewOpenAIEmbedder(cfg *Config, extra ...option.RequestOption) *OpenAIEmbedder {
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

	model := strings.TrimSpace(cfg.EmbeddingModel)
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &OpenAIEmbedder{
		client:     openai.NewClient(opts...),
		model:      model,
		dimensions: cfg.EmbeddingDimensions,
	}
}

// Embed returns one vector per text. Vectors are placed by the index the
// API reports, not by response order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	params := openai.EmbeddingNewParams{
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:          openai.EmbeddingModel(e.model),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	}
	// only the text-embedding-3 family accepts a dimensions override
	if e.dimensions > 0 && strings.HasPrefix(e.model, "text-embedding-3") {
		params.Dimensions = openai.Int(int64(e.dimensions))
	}

	start := time.Now()
	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("model", e.model).
		Int("texts", len(texts)).
		Dur("elapsed", time.Since(start)).
		Msg("embeddings created")

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			vec[i] = float32(f)
		}
		out[d.Index] = vec
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for text %d", i)
		}
	}
	return out, nil
}
