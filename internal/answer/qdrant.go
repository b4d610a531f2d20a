package answer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog/log"
)

// Payload keys written for every point.
const (
	PayloadText   = "page_content"
	PayloadSource = "source"
	PayloadChunk  = "chunk_index"
)

// qdrantClient is the part of *qdrant.Client the store uses.
type qdrantClient interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error
	Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Close() error
}

// QdrantStore keeps documents in one Qdrant collection.
type QdrantStore struct {
	client         qdrantClient
	collection     string
	dimensions     int
	scoreThreshold float32
}

var _ VectorStore = (*QdrantStore)(nil)

// NewQdrantStore connects to the Qdrant gRPC endpoint from cfg. The
// connection is established lazily on the first call.
func NewQdrantStore(cfg *Config) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.QdrantHost,
		Port:                   cfg.QdrantPort,
		APIKey:                 cfg.QdrantAPIKey,
		UseTLS:                 cfg.QdrantTLS,
		SkipCompatibilityCheck: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}
	return newQdrantStore(client, cfg), nil
}

func newQdrantStore(client qdrantClient, cfg *Config) *QdrantStore {
	return &QdrantStore{
		client:         client,
		collection:     cfg.Collection,
		dimensions:     cfg.EmbeddingDimensions,
		scoreThreshold: cfg.ScoreThreshold,
	}
}

// Collection returns the collection name
func (s *QdrantStore) Collection() string {
	return s.collection
}

// EnsureCollection creates the collection with cosine distance if it does
// not exist yet.
func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	ok, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("checking collection %s: %w", s.collection, err)
	}
	if ok {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", s.collection, err)
	}
	log.Info().Str("collection", s.collection).Int("dimensions", s.dimensions).Msg("collection created")
	return nil
}

// Upsert writes docs and waits until Qdrant has applied them. Documents
// without an ID get a random UUID.
func (s *QdrantStore) Upsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(docs))
	for _, d := range docs {
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		payload, err := qdrant.TryValueMap(map[string]any{
			PayloadText:   d.Text,
			PayloadSource: d.Source,
			PayloadChunk:  d.Chunk,
		})
		if err != nil {
			return fmt.Errorf("payload for %s: %w", d.Source, err)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(id),
			Payload: payload,
			Vectors: qdrant.NewVectors(d.Vector...),
		})
	}

	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	}); err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}
	return nil
}

// Search returns the text of the closest points, best first. Points
// without text are skipped.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit int) ([]string, error) {
	req := &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if s.scoreThreshold > 0 {
		req.ScoreThreshold = qdrant.PtrOf(s.scoreThreshold)
	}

	points, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.collection, err)
	}

	docs := make([]string, 0, len(points))
	for _, p := range points {
		text := p.GetPayload()[PayloadText].GetStringValue()
		if text == "" {
			continue
		}
		docs = append(docs, text)
	}
	return docs, nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}
