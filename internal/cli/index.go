package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"ragpipe/internal/adapter/corpus"
	"ragpipe/internal/adapter/splitter"
	"ragpipe/internal/adapter/store"
)

var indexCmd = &cobra.Command{
	Use:   "index [pattern...]",
	Short: "Chunk, embed and index a corpus",
	Long: `Load corpus records from JSON files matching the given glob patterns,
split them into chunks, embed the chunks, and persist the embedded corpus
for later queries.

Each corpus file holds a JSON array of {"title": ..., "text": ...} records.

Examples:
  ragpipe index corpus.json
  ragpipe index "data/**/*.json"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	docs, err := corpus.Load(args)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d documents\n", len(docs))

	split, err := splitter.NewTextSplitter(
		splitter.Unit(cfg.TextSplitter.SplitBy),
		cfg.TextSplitter.ChunkSize,
		cfg.TextSplitter.ChunkOverlap,
	)
	if err != nil {
		return err
	}

	chunks, err := split.Transform(docs)
	if err != nil {
		return err
	}
	fmt.Printf("Split into %d chunks\n", len(chunks))

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(chunks),
		progressbar.OptionSetDescription("Embedding"),
		progressbar.OptionShowCount(),
	)
	embedder.OnBatch = func(done, total int) {
		bar.Set(done)
	}

	embedded, err := embedder.Transform(chunks)
	if err != nil {
		return err
	}
	bar.Finish()
	fmt.Println()

	if err := cfg.EnsureStorageDir(rootDir); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	st, err := store.OpenBoltCorpusStore(cfg.CorpusDBPath(rootDir))
	if err != nil {
		return err
	}
	defer st.Close()

	meta := store.CorpusMeta{
		EmbeddingModel: embedder.ModelName(),
		Dimension:      embedder.Dimension(),
	}
	if err := st.SaveCorpus(embedded, meta); err != nil {
		return fmt.Errorf("failed to persist corpus: %w", err)
	}

	fmt.Printf("Indexed %d chunks into %s\n", len(embedded), cfg.CorpusDBPath(rootDir))
	printUsage(embedder)
	return nil
}
