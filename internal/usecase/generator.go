package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"ragpipe/internal/domain"
	"ragpipe/internal/port"
)

// DefaultTaskDesc is the preset task description for RAG answering. The
// generator's reply must carry the answer as a JSON object.
const DefaultTaskDesc = `You are a helpful assistant.

Your task is to answer the query that may or may not come with context information.
When context is provided, you should stick to the context and less on your prior knowledge to answer the query.

Output JSON format:
{
    "answer": "The answer to the query"
}`

// Generator sends a structured prompt to a generation backend and parses
// the reply into a GeneratorResponse. No retries happen at this layer.
type Generator struct {
	backend  port.GenerationBackend
	taskDesc string
}

// NewGenerator creates a generator. An empty taskDesc selects
// DefaultTaskDesc.
func NewGenerator(backend port.GenerationBackend, taskDesc string) *Generator {
	if taskDesc == "" {
		taskDesc = DefaultTaskDesc
	}
	return &Generator{backend: backend, taskDesc: taskDesc}
}

// Generate renders the prompt from contextStr and inputStr, calls the
// backend, and parses the structured payload. Exactly one of the returned
// response's Data and Err is set; callers must check Err before Data.
func (g *Generator) Generate(contextStr, inputStr string) domain.GeneratorResponse {
	raw, err := g.backend.Generate(g.taskDesc, renderUserPrompt(contextStr, inputStr))
	if err != nil {
		return domain.GeneratorResponse{
			Err: fmt.Errorf("%w: %v", domain.ErrGenerationBackend, err),
		}
	}

	data, err := parseJSONPayload(raw)
	if err != nil {
		return domain.GeneratorResponse{
			RawResponse: raw,
			Err:         err,
		}
	}

	return domain.GeneratorResponse{
		Data:        data,
		RawResponse: raw,
	}
}

// renderUserPrompt fills the context_str and input_str slots. A nil/empty
// context produces a bare query prompt.
func renderUserPrompt(contextStr, inputStr string) string {
	var b strings.Builder
	if contextStr != "" {
		b.WriteString("Context information:\n---\n")
		b.WriteString(contextStr)
		b.WriteString("\n---\n")
	}
	b.WriteString("User query: ")
	b.WriteString(inputStr)
	return b.String()
}

// parseJSONPayload extracts the first well-formed JSON object from a
// free-form reply. Models often wrap JSON in prose or code fences; the
// parser scans for a balanced object rather than requiring a clean reply.
func parseJSONPayload(raw string) (map[string]any, error) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON object in reply", domain.ErrMalformedOutput)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				var data map[string]any
				if err := json.Unmarshal([]byte(raw[start:i+1]), &data); err != nil {
					return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
				}
				return data, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: unbalanced JSON object in reply", domain.ErrMalformedOutput)
}
