package domain

// Meta carries document metadata. Title is the common case for corpus
// records; Extra holds arbitrary key-value pairs.
type Meta struct {
	Title string            `json:"title,omitempty"`
	Extra map[string]string `json:"extra,omitempty"`
}

// Document is the unit of text flowing through the pipeline. A chunk
// produced by splitting is itself a Document whose ParentDocID references
// the original. Vector is nil until the document has been embedded.
//
// Documents are owned by the DocumentStore; other components reference them
// by position or ID.
type Document struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Meta        Meta      `json:"meta"`
	ParentDocID string    `json:"parent_doc_id,omitempty"`
	Vector      []float32 `json:"vector,omitempty"`
}

// RetrievalResult holds the outcome of a single retrieval. DocIndexes are
// positions into the indexed document sequence, ordered by descending
// score; Scores is the same length.
type RetrievalResult struct {
	Query      string    `json:"query"`
	DocIndexes []int     `json:"doc_indexes"`
	Scores     []float64 `json:"scores"`
}

// GeneratorResponse is the tagged result of a generation call: exactly one
// of Data and Err is set. RawResponse preserves the backend reply for
// inspection either way.
type GeneratorResponse struct {
	Data        map[string]any
	RawResponse string
	Err         error
}

// Answer extracts the "answer" field from the parsed payload.
func (r GeneratorResponse) Answer() (string, bool) {
	if r.Err != nil || r.Data == nil {
		return "", false
	}
	s, ok := r.Data["answer"].(string)
	return s, ok
}

// EvaluationRecord is a batch of examples as five parallel slices; index i
// across all slices refers to the same example.
type EvaluationRecord struct {
	Questions           []string
	RetrievedContexts   []string
	GroundTruthContexts [][]string
	PredictedAnswers    []string
	GroundTruthAnswers  []string
}

// Len returns the number of examples in the record.
func (r EvaluationRecord) Len() int {
	return len(r.Questions)
}

// Validate checks the five-way alignment contract.
func (r EvaluationRecord) Validate() error {
	n := len(r.Questions)
	if len(r.RetrievedContexts) != n ||
		len(r.GroundTruthContexts) != n ||
		len(r.PredictedAnswers) != n ||
		len(r.GroundTruthAnswers) != n {
		return ErrLengthMismatch
	}
	return nil
}
