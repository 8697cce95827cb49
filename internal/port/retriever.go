package port

import "ragpipe/internal/domain"

// Retriever builds a searchable index over a fixed document sequence and
// answers top-k queries against it. Returned indexes are positions into
// the exact sequence passed to BuildIndex.
type Retriever interface {
	// BuildIndex constructs the index. The positional ordering of docs is
	// the ordering every later Retrieve result maps back into.
	BuildIndex(docs []domain.Document) error

	// Retrieve returns at most topK document positions ordered by
	// descending similarity, ties broken by ascending position.
	Retrieve(query string, topK int) (domain.RetrievalResult, error)
}
