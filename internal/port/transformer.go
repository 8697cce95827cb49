package port

import "ragpipe/internal/domain"

// Transformer is one stage of the document pipeline: splitting, embedding,
// and similar derivations. Stages are composed in a fixed order by the
// pipeline builder.
type Transformer interface {
	// Name identifies the stage; the pipeline stores each stage's output
	// in the document store under this key.
	Name() string

	// Transform derives a new document sequence from the input sequence.
	// It must not mutate the input.
	Transform(docs []domain.Document) ([]domain.Document, error)
}
