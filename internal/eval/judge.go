package eval

import (
	"fmt"
	"strings"
	"unicode"

	"ragpipe/internal/domain"
	"ragpipe/internal/port"
)

const judgeSystemPrompt = `You are an evaluator. Given a question, a ground truth answer, and a predicted answer, judge the statement you are asked about.
Reply with exactly one word: true or false. No explanation.`

// LLMJudge delegates per-example verdicts to a generation backend. One
// failed example does not abort the batch; it scores 0 and is counted in
// the returned failure total.
type LLMJudge struct {
	backend port.GenerationBackend
}

// NewLLMJudge creates a judge over the given backend.
func NewLLMJudge(backend port.GenerationBackend) *LLMJudge {
	return &LLMJudge{backend: backend}
}

// JudgeResult is the outcome of a judged batch.
type JudgeResult struct {
	Average    float64
	PerExample []float64
	Failed     int
	// Errors holds the per-example failures, aligned with PerExample;
	// nil entries mean the example was judged successfully.
	Errors []error
}

// Compute judges each (question, ground truth, prediction) triple against
// the caller-supplied judgement query and returns the fraction of true
// verdicts.
func (j *LLMJudge) Compute(questions, references, predictions []string, judgementQuery string) (JudgeResult, error) {
	if len(questions) != len(references) || len(questions) != len(predictions) {
		return JudgeResult{}, fmt.Errorf("%w: %d questions, %d references, %d predictions",
			domain.ErrLengthMismatch, len(questions), len(references), len(predictions))
	}

	result := JudgeResult{
		PerExample: make([]float64, len(questions)),
		Errors:     make([]error, len(questions)),
	}

	for i := range questions {
		verdict, err := j.judgeOne(questions[i], references[i], predictions[i], judgementQuery)
		if err != nil {
			result.Failed++
			result.Errors[i] = err
			continue
		}
		if verdict {
			result.PerExample[i] = 1
		}
	}

	result.Average = mean(result.PerExample)
	return result, nil
}

func (j *LLMJudge) judgeOne(question, reference, prediction, judgementQuery string) (bool, error) {
	userPrompt := fmt.Sprintf(
		"Question: %s\nGround truth answer: %s\nPredicted answer: %s\n\nJudgement question: %s\nAnswer true or false:",
		question, reference, prediction, judgementQuery)

	reply, err := j.backend.Generate(judgeSystemPrompt, userPrompt)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrJudgeBackend, err)
	}

	verdict, ok := parseVerdict(reply)
	if !ok {
		return false, fmt.Errorf("%w: no boolean verdict in reply %q", domain.ErrJudgeBackend, reply)
	}
	return verdict, nil
}

// parseVerdict accepts a bare true/false (any case, with surrounding prose
// tolerated as long as exactly one of the two words appears) or a JSON
// {"judgement": bool} payload.
func parseVerdict(reply string) (bool, bool) {
	lower := strings.ToLower(strings.TrimSpace(reply))

	switch lower {
	case "true", "false":
		return lower == "true", true
	}

	if strings.Contains(lower, `"judgement": true`) || strings.Contains(lower, `"judgement":true`) {
		return true, true
	}
	if strings.Contains(lower, `"judgement": false`) || strings.Contains(lower, `"judgement":false`) {
		return false, true
	}

	// Whole words only, so "untrue" or "falsehood" never counts as a
	// verdict.
	hasTrue := false
	hasFalse := false
	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		switch word {
		case "true":
			hasTrue = true
		case "false":
			hasFalse = true
		}
	}
	if hasTrue != hasFalse {
		return hasTrue, true
	}
	return false, false
}
