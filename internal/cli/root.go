package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ragpipe/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "ragpipe",
	Short: "Retrieval-augmented generation pipeline with built-in evaluation",
	Long: `ragpipe indexes a document corpus, answers queries by retrieving the most
relevant passages and conditioning a text generator on them, and scores
retrieval and generation quality against ground truth.

Example usage:
  ragpipe index "corpus/*.json"       # Chunk, embed and index a corpus
  ragpipe ask -q "capital of France"  # Answer a query over the index
  ragpipe eval -D dataset.json        # Score the pipeline against ground truth`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return cfg.Validate()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./ragpipe.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}
