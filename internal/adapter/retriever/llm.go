package retriever

import (
	"encoding/json"
	"fmt"
	"strings"

	"ragpipe/internal/domain"
	"ragpipe/internal/port"
)

const llmRetrieverSystemPrompt = `You are a retriever. You will be given numbered context documents and a query.
Reply with a JSON array of the indices of the most relevant documents, most relevant first, at most the requested number.
Reply with the JSON array only. No explanation.`

// LLMRetriever delegates ranking to a generation backend: the indexed
// documents are listed in the prompt and the model picks the most relevant
// positions. No embeddings are involved, which makes it an option for small
// corpora where an index build is not worth it.
type LLMRetriever struct {
	backend port.GenerationBackend

	built bool
	texts []string
}

// NewLLMRetriever creates a retriever over the given backend.
func NewLLMRetriever(backend port.GenerationBackend) *LLMRetriever {
	return &LLMRetriever{backend: backend}
}

// BuildIndex records the document texts in positional order.
func (r *LLMRetriever) BuildIndex(docs []domain.Document) error {
	if len(docs) == 0 {
		return domain.ErrIndexEmpty
	}

	r.texts = make([]string, len(docs))
	for i, doc := range docs {
		r.texts[i] = doc.Text
	}
	r.built = true
	return nil
}

// Retrieve asks the backend for the topK most relevant document positions.
// Scores are rank-based: the model orders but does not score.
func (r *LLMRetriever) Retrieve(query string, topK int) (domain.RetrievalResult, error) {
	if !r.built {
		return domain.RetrievalResult{}, domain.ErrIndexNotBuilt
	}
	if topK < 1 {
		return domain.RetrievalResult{}, fmt.Errorf("%w: top_k must be >= 1, got %d", domain.ErrInvalidConfig, topK)
	}
	if topK > len(r.texts) {
		topK = len(r.texts)
	}

	reply, err := r.backend.Generate(llmRetrieverSystemPrompt, r.renderUserPrompt(query, topK))
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("%w: %v", domain.ErrGenerationBackend, err)
	}

	indexes, err := parseIndexList(reply, len(r.texts))
	if err != nil {
		return domain.RetrievalResult{}, err
	}
	if len(indexes) > topK {
		indexes = indexes[:topK]
	}

	// Rank-based scores keep the descending-order contract without
	// pretending the model produced similarities.
	scores := make([]float64, len(indexes))
	for i := range indexes {
		scores[i] = float64(len(indexes)-i) / float64(len(indexes))
	}

	return domain.RetrievalResult{
		Query:      query,
		DocIndexes: indexes,
		Scores:     scores,
	}, nil
}

func (r *LLMRetriever) renderUserPrompt(query string, topK int) string {
	var b strings.Builder
	b.WriteString("Documents:\n")
	for i, text := range r.texts {
		fmt.Fprintf(&b, "%d) %s\n", i, text)
	}
	fmt.Fprintf(&b, "\nQuery: %s\nReturn the indices of the %d most relevant documents:", query, topK)
	return b.String()
}

// parseIndexList extracts the first JSON array of document positions from a
// free-form reply, rejecting out-of-range entries and dropping duplicates.
func parseIndexList(reply string, n int) ([]int, error) {
	start := strings.IndexByte(reply, '[')
	if start < 0 {
		return nil, fmt.Errorf("%w: no index array in reply %q", domain.ErrMalformedOutput, reply)
	}
	end := strings.IndexByte(reply[start:], ']')
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated index array in reply %q", domain.ErrMalformedOutput, reply)
	}

	var raw []int
	if err := json.Unmarshal([]byte(reply[start:start+end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}

	seen := make(map[int]struct{}, len(raw))
	indexes := make([]int, 0, len(raw))
	for _, idx := range raw {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: index %d out of range for %d documents", domain.ErrMalformedOutput, idx, n)
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}
