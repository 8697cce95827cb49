package port

// EmbeddingBackend is the contract for an external embedding model. One
// call maps one batch of texts to vectors of a fixed dimension, one per
// input text, in input order.
type EmbeddingBackend interface {
	// Embed generates embeddings for the given texts.
	Embed(texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
