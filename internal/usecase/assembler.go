package usecase

import (
	"strings"

	"ragpipe/internal/domain"
)

// ContextAssembler joins retrieved documents into the single context string
// handed to the generator. Output is deterministic for identical input.
type ContextAssembler struct {
	separator   string
	deduplicate bool
}

// NewContextAssembler creates an assembler. With deduplicate enabled,
// repeated chunks (same parent and text, or same text) appear once.
func NewContextAssembler(separator string, deduplicate bool) *ContextAssembler {
	return &ContextAssembler{separator: separator, deduplicate: deduplicate}
}

// Assemble concatenates the documents' text in the given (retrieval) order.
func (a *ContextAssembler) Assemble(docs []domain.Document) string {
	parts := make([]string, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))

	for _, doc := range docs {
		if a.deduplicate {
			// Identical text is a repeat regardless of which parent the
			// chunk came from.
			if _, dup := seen[doc.Text]; dup {
				continue
			}
			seen[doc.Text] = struct{}{}
		}
		parts = append(parts, doc.Text)
	}

	return strings.Join(parts, a.separator)
}
