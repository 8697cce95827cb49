package eval

import (
	"fmt"
	"strings"

	"ragpipe/internal/domain"
)

// MatchType selects the answer comparison mode.
type MatchType string

const (
	// ExactMatch compares normalized strings for equality.
	ExactMatch MatchType = "exact_match"
	// FuzzyMatch accepts the ground truth appearing as a normalized
	// substring of the prediction.
	FuzzyMatch MatchType = "fuzzy_match"
)

// AnswerMatchAcc scores predicted answers against ground truth answers as
// binary matches. Both modes normalize first: lowercase, punctuation
// stripped, whitespace collapsed.
type AnswerMatchAcc struct {
	Type MatchType
}

// Compute returns the accuracy and the per-example 1/0 breakdown.
func (m AnswerMatchAcc) Compute(predictions, references []string) (float64, []float64, error) {
	if len(predictions) != len(references) {
		return 0, nil, fmt.Errorf("%w: %d predictions vs %d references",
			domain.ErrLengthMismatch, len(predictions), len(references))
	}
	switch m.Type {
	case ExactMatch, FuzzyMatch:
	default:
		return 0, nil, fmt.Errorf("%w: unknown match type %q", domain.ErrInvalidConfig, m.Type)
	}

	perExample := make([]float64, len(predictions))
	for i := range predictions {
		if m.matches(predictions[i], references[i]) {
			perExample[i] = 1
		}
	}
	return mean(perExample), perExample, nil
}

func (m AnswerMatchAcc) matches(prediction, reference string) bool {
	pred := normalize(prediction)
	ref := normalize(reference)

	if m.Type == ExactMatch {
		return pred == ref
	}
	if ref == "" {
		return pred == ""
	}
	return strings.Contains(pred, ref)
}
