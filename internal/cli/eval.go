package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"ragpipe/internal/domain"
	"ragpipe/internal/eval"
)

var (
	evalDataset   string
	evalMatchType string
	evalNoJudge   bool
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score the pipeline against a ground-truth dataset",
	Long: `Run the full pipeline over every question in the dataset and score the
results with the retrieval and generation metrics.

The dataset is a JSON array of examples:
  [{"question": ..., "answer": ..., "supporting_sentences": [...]}]

Examples:
  ragpipe eval --dataset eval.json
  ragpipe eval --dataset eval.json --match fuzzy_match --no-judge`,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVarP(&evalDataset, "dataset", "D", "", "dataset file (required)")
	evalCmd.Flags().StringVar(&evalMatchType, "match", string(eval.ExactMatch), "answer match mode: exact_match or fuzzy_match")
	evalCmd.Flags().BoolVar(&evalNoJudge, "no-judge", false, "skip the LLM-as-judge metric")
	evalCmd.MarkFlagRequired("dataset")
}

// evalExample is one ground-truth dataset entry.
type evalExample struct {
	Question            string   `json:"question"`
	Answer              string   `json:"answer"`
	SupportingSentences []string `json:"supporting_sentences"`
}

func runEval(cmd *cobra.Command, args []string) error {
	examples, err := loadDataset(evalDataset)
	if err != nil {
		return err
	}

	pipeline, embedder, err := loadPipeline(0)
	if err != nil {
		return err
	}

	record := domain.EvaluationRecord{
		Questions:           make([]string, 0, len(examples)),
		RetrievedContexts:   make([]string, 0, len(examples)),
		GroundTruthContexts: make([][]string, 0, len(examples)),
		PredictedAnswers:    make([]string, 0, len(examples)),
		GroundTruthAnswers:  make([]string, 0, len(examples)),
	}

	bar := progressbar.NewOptions(len(examples),
		progressbar.OptionSetDescription("Evaluating"),
		progressbar.OptionShowCount(),
	)

	generationFailures := 0
	for _, ex := range examples {
		result, err := pipeline.Call(ex.Question)
		if err != nil {
			return fmt.Errorf("pipeline failed on question %q: %w", ex.Question, err)
		}

		predicted := ""
		if result.Response.Err != nil {
			generationFailures++
		} else if answer, ok := result.Response.Answer(); ok {
			predicted = answer
		} else {
			generationFailures++
		}

		record.Questions = append(record.Questions, ex.Question)
		record.RetrievedContexts = append(record.RetrievedContexts, result.Context)
		record.GroundTruthContexts = append(record.GroundTruthContexts, ex.SupportingSentences)
		record.PredictedAnswers = append(record.PredictedAnswers, predicted)
		record.GroundTruthAnswers = append(record.GroundTruthAnswers, ex.Answer)
		bar.Add(1)
	}
	bar.Finish()
	fmt.Println()

	if err := record.Validate(); err != nil {
		return err
	}

	recall, _, err := eval.RetrieverRecall{}.Compute(record.RetrievedContexts, record.GroundTruthContexts)
	if err != nil {
		return err
	}
	relevance, _, err := eval.RetrieverRelevance{}.Compute(record.RetrievedContexts, record.GroundTruthContexts)
	if err != nil {
		return err
	}
	accuracy, _, err := eval.AnswerMatchAcc{Type: eval.MatchType(evalMatchType)}.Compute(
		record.PredictedAnswers, record.GroundTruthAnswers)
	if err != nil {
		return err
	}

	fmt.Printf("Examples:            %d\n", record.Len())
	fmt.Printf("Generation failures: %d\n", generationFailures)
	fmt.Printf("Retriever recall:    %.4f\n", recall)
	fmt.Printf("Retriever relevance: %.4f\n", relevance)
	fmt.Printf("Answer match (%s): %.4f\n", evalMatchType, accuracy)

	if !evalNoJudge {
		backend, err := newGenerationBackend(cfg)
		if err != nil {
			return err
		}
		judge := eval.NewLLMJudge(backend)
		result, err := judge.Compute(
			record.Questions,
			record.GroundTruthAnswers,
			record.PredictedAnswers,
			"Does the predicted answer convey the same meaning as the ground truth answer?",
		)
		if err != nil {
			return err
		}
		fmt.Printf("LLM judge:           %.4f (%d of %d examples failed)\n",
			result.Average, result.Failed, record.Len())
	}

	printUsage(embedder)
	return nil
}

func loadDataset(path string) ([]evalExample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var examples []evalExample
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("dataset must be a JSON array of examples: %w", err)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}
	return examples, nil
}
