package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/longkey1/chatbox/internal/answer/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder returns a vector of the text length for every text.
type fakeEmbedder struct {
	calls [][]string
	err   error
}

func (e *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls = append(e.calls, texts)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

type memoryStore struct {
	docs      []Document
	results   []string
	lastQuery []float32
	lastLimit int
	err       error
}

func (s *memoryStore) Upsert(_ context.Context, docs []Document) error {
	if s.err != nil {
		return s.err
	}
	s.docs = append(s.docs, docs...)
	return nil
}

func (s *memoryStore) Search(_ context.Context, vector []float32, limit int) ([]string, error) {
	s.lastQuery, s.lastLimit = vector, limit
	return s.results, s.err
}

type staticRetriever struct {
	docs []string
	err  error
	seen string
}

func (r *staticRetriever) Retrieve(_ context.Context, query string) ([]string, error) {
	r.seen = query
	return r.docs, r.err
}

func TestVectorRetriever(t *testing.T) {
	e := &fakeEmbedder{}
	s := &memoryStore{results: []string{"first", "second"}}

	got, err := NewVectorRetriever(e, s, 3).Retrieve(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, got)
	assert.Equal(t, [][]string{{"hello"}}, e.calls)
	assert.Equal(t, []float32{5, 1}, s.lastQuery)
	assert.Equal(t, 3, s.lastLimit)
}

func TestVectorRetrieverDefaultLimit(t *testing.T) {
	s := &memoryStore{}
	_, err := NewVectorRetriever(&fakeEmbedder{}, s, 0).Retrieve(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 10, s.lastLimit)
}

func TestVectorRetrieverErrors(t *testing.T) {
	cause := errors.New("rate limited")
	_, err := NewVectorRetriever(&fakeEmbedder{err: cause}, &memoryStore{}, 3).Retrieve(context.Background(), "hello")
	assert.ErrorIs(t, err, cause)

	down := errors.New("connection refused")
	_, err = NewVectorRetriever(&fakeEmbedder{}, &memoryStore{err: down}, 3).Retrieve(context.Background(), "hello")
	assert.ErrorIs(t, err, down)
}

func TestServiceAnswerWithRetriever(t *testing.T) {
	b := &recordingBackend{reply: "Go is a language."}
	r := &staticRetriever{docs: []string{"Go was designed at Google.", "Go has goroutines."}}
	vars := map[string]string{"lang": "English"}
	s := NewService(b, prompt.Retrieval()).WithVars(vars).WithRetriever(r)

	got, err := s.Answer(context.Background(), "What is Go?")
	require.NoError(t, err)
	assert.Equal(t, "Go is a language.", got)
	assert.Equal(t, "What is Go?", r.seen)
	assert.Equal(t,
		"User prompt What is Go?\n\nRelated context:\nGo was designed at Google.\n\nGo has goroutines.",
		b.user)
	assert.NotContains(t, vars, "context", "configured vars are not modified")
}

func TestServiceAnswerWithoutContext(t *testing.T) {
	b := &recordingBackend{reply: "unused"}
	s := NewService(b, prompt.Retrieval()).WithRetriever(&staticRetriever{})

	_, err := s.Answer(context.Background(), "What is Go?")
	assert.ErrorIs(t, err, ErrNoContext)
	assert.Empty(t, b.user, "backend is not called")
}

func TestServiceAnswerRetrieverError(t *testing.T) {
	cause := errors.New("qdrant unavailable")
	s := NewService(&recordingBackend{}, nil).WithRetriever(&staticRetriever{err: cause})

	_, err := s.Answer(context.Background(), "hi")
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNoContext)
}
