package usecase

import (
	"fmt"
	"sync/atomic"

	"ragpipe/internal/domain"
	"ragpipe/internal/port"
)

// Usage tracks embedding cost counters. Counters are per-Embedder rather
// than process-wide so concurrent pipelines do not interfere; increments
// are atomic so concurrent Embedder use is safe.
type Usage struct {
	calls  atomic.Int64
	tokens atomic.Int64
}

// Calls returns the number of backend calls made so far.
func (u *Usage) Calls() int64 { return u.calls.Load() }

// Tokens returns the estimated tokens sent so far.
func (u *Usage) Tokens() int64 { return u.tokens.Load() }

// Embedder batches texts to an embedding backend, preserving input order.
// A failed batch aborts the whole operation: a partial embedding set would
// corrupt the index-to-document alignment.
type Embedder struct {
	backend   port.EmbeddingBackend
	batchSize int
	usage     Usage

	// OnBatch, when set, is called after each successful batch with the
	// number of texts embedded so far and the total.
	OnBatch func(done, total int)
}

// NewEmbedder wraps a backend with batching of at most batchSize texts per
// call.
func NewEmbedder(backend port.EmbeddingBackend, batchSize int) (*Embedder, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("%w: batch_size must be >= 1, got %d", domain.ErrInvalidConfig, batchSize)
	}
	return &Embedder{backend: backend, batchSize: batchSize}, nil
}

// EmbedTexts embeds texts in consecutive batches and concatenates the
// vectors in input order.
func (e *Embedder) EmbedTexts(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	all := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		vectors, err := e.backend.Embed(batch)
		if err != nil {
			return nil, fmt.Errorf("%w: batch %d-%d: %v", domain.ErrEmbeddingBackend, start, end, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: batch %d-%d returned %d vectors for %d texts",
				domain.ErrEmbeddingBackend, start, end, len(vectors), len(batch))
		}

		e.usage.calls.Add(1)
		e.usage.tokens.Add(estimateTokens(batch))

		all = append(all, vectors...)

		if e.OnBatch != nil {
			e.OnBatch(end, len(texts))
		}
	}
	return all, nil
}

// Name implements port.Transformer.
func (e *Embedder) Name() string { return "embedded" }

// Transform embeds every document's text and returns copies with vectors
// assigned. Implements port.Transformer.
func (e *Embedder) Transform(docs []domain.Document) ([]domain.Document, error) {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	vectors, err := e.EmbedTexts(texts)
	if err != nil {
		return nil, err
	}

	out := append([]domain.Document(nil), docs...)
	for i := range out {
		out[i].Vector = vectors[i]
	}
	return out, nil
}

// Usage exposes the cost counters.
func (e *Embedder) Usage() *Usage {
	return &e.usage
}

// Dimension returns the backend's embedding dimension.
func (e *Embedder) Dimension() int {
	return e.backend.Dimension()
}

// ModelName returns the backend's model name.
func (e *Embedder) ModelName() string {
	return e.backend.ModelName()
}

// estimateTokens approximates token usage at ~4 characters per token.
func estimateTokens(texts []string) int64 {
	var chars int64
	for _, t := range texts {
		chars += int64(len(t))
	}
	return chars / 4
}
