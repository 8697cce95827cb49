package port

// GenerationBackend is the contract for an external text-generation model.
type GenerationBackend interface {
	// Generate sends a system and user prompt and returns the raw text reply.
	Generate(systemPrompt, userPrompt string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
