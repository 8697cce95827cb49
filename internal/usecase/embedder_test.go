package usecase

import (
	"errors"
	"fmt"
	"testing"

	"ragpipe/internal/domain"
)

// recordingBackend captures batch sizes and can fail on a chosen call.
type recordingBackend struct {
	dim     int
	batches [][]string
	failOn  int // 1-based call number to fail on; 0 means never
}

func (b *recordingBackend) Embed(texts []string) ([][]float32, error) {
	b.batches = append(b.batches, texts)
	if b.failOn > 0 && len(b.batches) == b.failOn {
		return nil, fmt.Errorf("backend unavailable")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, b.dim)
		out[i][0] = float32(len(texts[i]))
	}
	return out, nil
}

func (b *recordingBackend) Dimension() int    { return b.dim }
func (b *recordingBackend) ModelName() string { return "recording" }

func TestEmbedderBatchPartitioning(t *testing.T) {
	backend := &recordingBackend{dim: 4}
	e, err := NewEmbedder(backend, 2)
	if err != nil {
		t.Fatal(err)
	}

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vectors, err := e.EmbedTexts(texts)
	if err != nil {
		t.Fatal(err)
	}

	if len(vectors) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vectors))
	}
	// Order preserved: vector i encodes len(texts[i]).
	for i, v := range vectors {
		if v[0] != float32(len(texts[i])) {
			t.Errorf("vector %d out of order: got %v", i, v[0])
		}
	}

	wantBatches := [][]int{{0, 1}, {2, 3}, {4}}
	if len(backend.batches) != len(wantBatches) {
		t.Fatalf("expected %d batches, got %d", len(wantBatches), len(backend.batches))
	}
	for i, batch := range backend.batches {
		if len(batch) != len(wantBatches[i]) {
			t.Errorf("batch %d: expected size %d, got %d", i, len(wantBatches[i]), len(batch))
		}
	}
}

func TestEmbedderAbortsOnBatchFailure(t *testing.T) {
	backend := &recordingBackend{dim: 4, failOn: 2}
	e, err := NewEmbedder(backend, 2)
	if err != nil {
		t.Fatal(err)
	}

	_, err = e.EmbedTexts([]string{"a", "b", "c", "d"})
	if !errors.Is(err, domain.ErrEmbeddingBackend) {
		t.Errorf("expected ErrEmbeddingBackend, got %v", err)
	}
}

func TestEmbedderUsageCounters(t *testing.T) {
	backend := &recordingBackend{dim: 4}
	e, err := NewEmbedder(backend, 2)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.EmbedTexts([]string{"aaaa", "bbbb", "cccc"}); err != nil {
		t.Fatal(err)
	}

	if got := e.Usage().Calls(); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
	// 12 chars at ~4 chars/token.
	if got := e.Usage().Tokens(); got != 3 {
		t.Errorf("expected 3 estimated tokens, got %d", got)
	}
}

func TestEmbedderInvalidBatchSize(t *testing.T) {
	if _, err := NewEmbedder(&recordingBackend{dim: 4}, 0); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestEmbedderTransformAssignsVectors(t *testing.T) {
	backend := &recordingBackend{dim: 4}
	e, err := NewEmbedder(backend, 10)
	if err != nil {
		t.Fatal(err)
	}

	docs := []domain.Document{
		{ID: "a", Text: "hello"},
		{ID: "b", Text: "world wide"},
	}
	out, err := e.Transform(docs)
	if err != nil {
		t.Fatal(err)
	}

	for i, d := range out {
		if d.Vector == nil {
			t.Errorf("document %d not embedded", i)
		}
	}
	// Input documents stay untouched.
	if docs[0].Vector != nil {
		t.Error("Transform mutated its input")
	}
}
