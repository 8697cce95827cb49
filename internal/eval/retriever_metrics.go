package eval

import (
	"fmt"
	"strings"

	"ragpipe/internal/domain"
)

// RetrieverRecall measures ground-truth coverage: per example, the fraction
// of ground-truth supporting sentences that appear inside the retrieved
// context string.
type RetrieverRecall struct{}

// Compute returns the mean recall and the per-example breakdown.
func (RetrieverRecall) Compute(retrievedContexts []string, gtContexts [][]string) (float64, []float64, error) {
	if len(retrievedContexts) != len(gtContexts) {
		return 0, nil, fmt.Errorf("%w: %d retrieved vs %d ground truth",
			domain.ErrLengthMismatch, len(retrievedContexts), len(gtContexts))
	}

	perExample := make([]float64, len(retrievedContexts))
	for i, retrieved := range retrievedContexts {
		perExample[i] = recallOne(retrieved, gtContexts[i])
	}
	return mean(perExample), perExample, nil
}

func recallOne(retrieved string, gt []string) float64 {
	if len(gt) == 0 {
		// Nothing to cover.
		return 1
	}
	matched := 0
	for _, sentence := range gt {
		if strings.Contains(retrieved, sentence) {
			matched++
		}
	}
	return float64(matched) / float64(len(gt))
}

// RetrieverRelevance is the precision-like counterpart: per example, the
// fraction of the retrieved context covered by ground-truth supporting
// sentences, measured in characters.
type RetrieverRelevance struct{}

// Compute returns the mean relevance and the per-example breakdown.
func (RetrieverRelevance) Compute(retrievedContexts []string, gtContexts [][]string) (float64, []float64, error) {
	if len(retrievedContexts) != len(gtContexts) {
		return 0, nil, fmt.Errorf("%w: %d retrieved vs %d ground truth",
			domain.ErrLengthMismatch, len(retrievedContexts), len(gtContexts))
	}

	perExample := make([]float64, len(retrievedContexts))
	for i, retrieved := range retrievedContexts {
		perExample[i] = relevanceOne(retrieved, gtContexts[i])
	}
	return mean(perExample), perExample, nil
}

func relevanceOne(retrieved string, gt []string) float64 {
	if len(retrieved) == 0 {
		return 0
	}
	matchedChars := 0
	for _, sentence := range gt {
		if strings.Contains(retrieved, sentence) {
			matchedChars += len(sentence)
		}
	}
	rel := float64(matchedChars) / float64(len(retrieved))
	if rel > 1 {
		rel = 1
	}
	return rel
}
