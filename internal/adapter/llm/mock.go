package llm

// MockClient returns canned replies for tests and offline runs. Reply
// receives the system and user prompt and produces the raw text the real
// backend would return.
type MockClient struct {
	Reply func(systemPrompt, userPrompt string) (string, error)
}

// Generate implements port.GenerationBackend.
func (c *MockClient) Generate(systemPrompt, userPrompt string) (string, error) {
	return c.Reply(systemPrompt, userPrompt)
}

// ModelName returns the name of the model.
func (c *MockClient) ModelName() string {
	return "mock"
}
