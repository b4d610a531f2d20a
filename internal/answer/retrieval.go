package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrNoContext is returned when retrieval finds no document for a prompt.
var ErrNoContext = errors.New("no relevant context found")

// Retriever finds documents related to a prompt.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]string, error)
}

// Embedder turns texts into vectors, one per text and in the same order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Document is one chunk of an ingested file.
type Document struct {
	ID     string
	Text   string
	Source string
	Chunk  int
	Vector []float32
}

// VectorStore keeps documents and finds the nearest ones to a vector.
type VectorStore interface {
	Upsert(ctx context.Context, docs []Document) error
	Search(ctx context.Context, vector []float32, limit int) ([]string, error)
}

// VectorRetriever embeds the prompt and searches a vector store with it.
type VectorRetriever struct {
	embedder Embedder
	store    VectorStore
	limit    int
}

var _ Retriever = (*VectorRetriever)(nil)

func NewVectorRetriever(embedder Embedder, store VectorStore, limit int) *VectorRetriever {
	if limit <= 0 {
		limit = 10
	}
	return &VectorRetriever{embedder: embedder, store: store, limit: limit}
}

// Retrieve returns the text of the documents closest to query, best first.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]string, error) {
	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding prompt: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding prompt: got %d vectors", len(vectors))
	}

	docs, err := r.store.Search(ctx, vectors[0], r.limit)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	log.Debug().Int("documents", len(docs)).Int("limit", r.limit).Msg("retrieved context")
	return docs, nil
}

// joinContext renders documents for the {{context}} placeholder.
func joinContext(docs []string) string {
	return strings.Join(docs, "\n\n")
}
