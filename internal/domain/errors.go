package domain

import "errors"

// Error taxonomy for the pipeline. Callers discriminate with errors.Is;
// adapters wrap these with context via fmt.Errorf("...: %w", ...).
var (
	// ErrInvalidConfig covers invalid model or pipeline configuration,
	// caught at construction time.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidSplitConfig means chunk size or overlap is out of range.
	ErrInvalidSplitConfig = errors.New("invalid split config")

	// ErrEmbeddingBackend wraps failures of the embedding backend.
	ErrEmbeddingBackend = errors.New("embedding backend failure")

	// ErrGenerationBackend wraps failures of the generation backend.
	ErrGenerationBackend = errors.New("generation backend failure")

	// ErrJudgeBackend wraps per-example failures of the judge backend.
	ErrJudgeBackend = errors.New("judge backend failure")

	// ErrMalformedOutput means the generator reply did not contain a
	// well-formed structured payload.
	ErrMalformedOutput = errors.New("malformed generator output")

	// ErrIndexEmpty means index build was attempted with no documents.
	ErrIndexEmpty = errors.New("index build requires at least one document")

	// ErrIndexNotBuilt means search was attempted before index build.
	ErrIndexNotBuilt = errors.New("search called before index build")

	// ErrDimensionMismatch means a vector does not match the index
	// dimensionality fixed at build time.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrLengthMismatch means evaluation inputs are not aligned.
	ErrLengthMismatch = errors.New("predictions and references have different lengths")
)
