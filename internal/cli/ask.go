package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ragpipe/internal/adapter/store"
	"ragpipe/internal/domain"
	"ragpipe/internal/usecase"
)

var (
	askQuery string
	askTopK  int
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a query over the indexed corpus",
	Long: `Retrieve the most relevant chunks for the query, assemble them into a
context string, and generate an answer conditioned on that context.

Examples:
  ragpipe ask -q "What is Li Yin's profession?"
  ragpipe ask -q "capital of France" --top-k 3 --json`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuery, "query", "q", "", "query text (required)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of retrieved chunks (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.MarkFlagRequired("query")
}

// askOutput is the JSON shape of a single answered query.
type askOutput struct {
	Query      string    `json:"query"`
	Answer     string    `json:"answer,omitempty"`
	Error      string    `json:"error,omitempty"`
	Context    string    `json:"context"`
	DocIndexes []int     `json:"doc_indexes"`
	Scores     []float64 `json:"scores"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	pipeline, embedder, err := loadPipeline(askTopK)
	if err != nil {
		return err
	}

	result, err := pipeline.Call(askQuery)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	out := askOutput{
		Query:      askQuery,
		Context:    result.Context,
		DocIndexes: result.Retrieval.DocIndexes,
		Scores:     result.Retrieval.Scores,
	}
	if result.Response.Err != nil {
		out.Error = result.Response.Err.Error()
	} else if answer, ok := result.Response.Answer(); ok {
		out.Answer = answer
	} else {
		out.Error = "generator reply has no answer field"
	}

	if askJSON {
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
	} else {
		if out.Error != "" {
			fmt.Printf("Generation failed: %s\n", out.Error)
		} else {
			fmt.Printf("Answer: %s\n", out.Answer)
		}
		fmt.Printf("Retrieved %d chunks (top score %.3f)\n", len(out.DocIndexes), topScore(out.Scores))
	}

	printUsage(embedder)
	return nil
}

func topScore(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	return scores[0]
}

// loadPipeline restores the persisted corpus and wires the online half of
// the pipeline around it. A positive topK overrides the configured one.
func loadPipeline(topK int) (*usecase.Pipeline, *usecase.Embedder, error) {
	st, err := store.OpenBoltCorpusStore(cfg.CorpusDBPath(rootDir))
	if err != nil {
		return nil, nil, fmt.Errorf("no index found; run 'ragpipe index' first: %w", err)
	}
	defer st.Close()

	docs, meta, err := st.LoadCorpus()
	if err != nil {
		return nil, nil, err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Retriever.Kind == "vector" {
		if meta.EmbeddingModel != embedder.ModelName() || meta.Dimension != embedder.Dimension() {
			return nil, nil, fmt.Errorf("%w: corpus was embedded with %s (dim %d) but config says %s (dim %d); re-run index",
				domain.ErrDimensionMismatch, meta.EmbeddingModel, meta.Dimension, embedder.ModelName(), embedder.Dimension())
		}
	}

	ret, err := newRetriever(cfg, embedder)
	if err != nil {
		return nil, nil, err
	}

	genBackend, err := newGenerationBackend(cfg)
	if err != nil {
		return nil, nil, err
	}

	if topK <= 0 {
		topK = cfg.Retriever.TopK
	}

	pipeline, err := usecase.NewPipeline(
		nil,
		ret,
		usecase.NewContextAssembler(cfg.Assembler.Separator, cfg.Assembler.Deduplicate),
		usecase.NewGenerator(genBackend, cfg.Generator.TaskDesc),
		topK,
	)
	if err != nil {
		return nil, nil, err
	}

	if err := pipeline.RestoreIndex(docs); err != nil {
		if errors.Is(err, domain.ErrIndexEmpty) {
			return nil, nil, fmt.Errorf("persisted corpus is empty; re-run 'ragpipe index'")
		}
		return nil, nil, err
	}

	return pipeline, embedder, nil
}
