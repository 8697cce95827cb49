package retriever

import (
	"fmt"

	"ragpipe/internal/adapter/index"
	"ragpipe/internal/domain"
)

// QueryEmbedder embeds query text. The retriever must be wired with the
// same embedder that produced the indexed document vectors.
type QueryEmbedder interface {
	EmbedTexts(texts []string) ([][]float32, error)
}

// VectorRetriever answers queries by embedding them and searching a flat
// exact-NN index over the document vectors.
type VectorRetriever struct {
	embedder QueryEmbedder
	index    *index.FlatIndex
}

// NewVectorRetriever creates a vector retriever using the given metric.
func NewVectorRetriever(embedder QueryEmbedder, metric index.Metric) (*VectorRetriever, error) {
	idx, err := index.NewFlatIndex(metric)
	if err != nil {
		return nil, err
	}
	return &VectorRetriever{embedder: embedder, index: idx}, nil
}

// BuildIndex indexes the documents' vectors by position. Every document
// must already be embedded.
func (r *VectorRetriever) BuildIndex(docs []domain.Document) error {
	if len(docs) == 0 {
		return domain.ErrIndexEmpty
	}

	vectors := make([][]float32, len(docs))
	for i, doc := range docs {
		if doc.Vector == nil {
			return fmt.Errorf("%w: document %d (%s) has no vector", domain.ErrDimensionMismatch, i, doc.ID)
		}
		vectors[i] = doc.Vector
	}
	return r.index.Build(vectors)
}

// Retrieve embeds the query and returns the top-k nearest documents.
func (r *VectorRetriever) Retrieve(query string, topK int) (domain.RetrievalResult, error) {
	embeddings, err := r.embedder.EmbedTexts([]string{query})
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) != 1 {
		return domain.RetrievalResult{}, fmt.Errorf("%w: expected 1 query embedding, got %d",
			domain.ErrEmbeddingBackend, len(embeddings))
	}

	indexes, scores, err := r.index.Search(embeddings[0], topK)
	if err != nil {
		return domain.RetrievalResult{}, err
	}

	return domain.RetrievalResult{
		Query:      query,
		DocIndexes: indexes,
		Scores:     scores,
	}, nil
}
