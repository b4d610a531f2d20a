package answer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const DefaultIngestBatchSize = 64

var ErrUnsupportedDocument = errors.New("unsupported document type")

// Ingester chunks text files, embeds the chunks and stores them.
type Ingester struct {
	embedder  Embedder
	store     VectorStore
	chunkSize int
	overlap   int
	batchSize int
}

// IngestOption configures an Ingester
type IngestOption func(*Ingester)

func WithChunking(size, overlap int) IngestOption {
	return func(i *Ingester) {
		i.chunkSize = size
		i.overlap = overlap
	}
}

func WithBatchSize(n int) IngestOption {
	return func(i *Ingester) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

func NewIngester(embedder Embedder, store VectorStore, opts ...IngestOption) *Ingester {
	i := &Ingester{
		embedder:  embedder,
		store:     store,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		batchSize: DefaultIngestBatchSize,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// IngestStats counts what an ingest run stored.
type IngestStats struct {
	Files  int
	Chunks int
}

// Ingest stores every supported file under paths. A path naming a file
// must be supported; files found while walking a directory are skipped
// when they are not.
func (i *Ingester) Ingest(ctx context.Context, paths ...string) (IngestStats, error) {
	var stats IngestStats
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return stats, err
		}
		if !info.IsDir() {
			if !isSupportedDocExt(root) {
				return stats, fmt.Errorf("%w: %s", ErrUnsupportedDocument, root)
			}
			if err := i.ingestFile(ctx, root, &stats); err != nil {
				return stats, err
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isSupportedDocExt(path) {
				return nil
			}
			return i.ingestFile(ctx, path, &stats)
		})
		if err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (i *Ingester) ingestFile(ctx context.Context, path string, stats *IngestStats) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	chunks := SplitText(string(data), i.chunkSize, i.overlap)
	if len(chunks) == 0 {
		log.Debug().Str("path", path).Msg("skipping empty document")
		return nil
	}

	for start := 0; start < len(chunks); start += i.batchSize {
		end := min(start+i.batchSize, len(chunks))
		batch := chunks[start:end]

		vectors, err := i.embedder.Embed(ctx, batch)
		if err != nil {
			return fmt.Errorf("embedding %s: %w", path, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding %s: got %d vectors for %d chunks", path, len(vectors), len(batch))
		}

		docs := make([]Document, len(batch))
		for j, text := range batch {
			idx := start + j
			docs[j] = Document{
				ID:     chunkID(path, idx),
				Text:   text,
				Source: path,
				Chunk:  idx,
				Vector: vectors[j],
			}
		}
		if err := i.store.Upsert(ctx, docs); err != nil {
			return err
		}
	}

	stats.Files++
	stats.Chunks += len(chunks)
	log.Info().Str("path", path).Int("chunks", len(chunks)).Msg("document ingested")
	return nil
}

// chunkID is stable for a path and chunk index, so ingesting a file again
// overwrites its points.
func chunkID(path string, idx int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "%s#%d", filepath.ToSlash(path), idx)).String()
}

func isSupportedDocExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".mdx", ".txt", ".rst", ".adoc", ".asciidoc",
		".html", ".htm", ".csv", ".json", ".yaml", ".yml", ".toml":
		return true
	default:
		return false
	}
}
