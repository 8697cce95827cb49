package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ragpipe/internal/domain"
)

// Config holds all configuration for the pipeline.
type Config struct {
	Vectorizer   VectorizerConfig   `yaml:"vectorizer"`
	Retriever    RetrieverConfig    `yaml:"retriever"`
	Generator    GeneratorConfig    `yaml:"generator"`
	TextSplitter TextSplitterConfig `yaml:"text_splitter"`
	Assembler    AssemblerConfig    `yaml:"assembler"`
	Storage      StorageConfig      `yaml:"storage"`
}

// VectorizerConfig holds embedding configuration.
type VectorizerConfig struct {
	Provider    string      `yaml:"provider"` // "openai" or "mock"
	BatchSize   int         `yaml:"batch_size"`
	APIKeyEnv   string      `yaml:"api_key_env"`
	BaseURL     string      `yaml:"base_url"`
	ModelKwargs ModelKwargs `yaml:"model_kwargs"`
}

// ModelKwargs holds the embedding model parameters passed through to the
// backend request.
type ModelKwargs struct {
	Model          string `yaml:"model"`
	Dimensions     int    `yaml:"dimensions"`
	EncodingFormat string `yaml:"encoding_format"`
}

// RetrieverConfig holds retrieval configuration.
type RetrieverConfig struct {
	Kind   string  `yaml:"kind"`   // "vector", "bm25" or "llm"
	TopK   int     `yaml:"top_k"`
	Metric string  `yaml:"metric"` // "cosine", "inner_product", "l2"
	K1     float64 `yaml:"k1"`     // BM25 only
	B      float64 `yaml:"b"`      // BM25 only
}

// GeneratorConfig holds generation configuration.
type GeneratorConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	Stream      bool    `yaml:"stream"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	BaseURL     string  `yaml:"base_url"`
	TaskDesc    string  `yaml:"task_desc"` // empty means the default RAG task prompt
}

// TextSplitterConfig holds document splitting configuration.
type TextSplitterConfig struct {
	SplitBy      string `yaml:"split_by"` // "sentence", "word", "token", "character"
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

// AssemblerConfig holds context assembly configuration.
type AssemblerConfig struct {
	Separator   string `yaml:"separator"`
	Deduplicate bool   `yaml:"deduplicate"`
}

// StorageConfig holds corpus persistence configuration.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Vectorizer: VectorizerConfig{
			Provider:  "openai",
			BatchSize: 100,
			APIKeyEnv: "OPENAI_API_KEY",
			ModelKwargs: ModelKwargs{
				Model:          "text-embedding-3-small",
				Dimensions:     256,
				EncodingFormat: "float",
			},
		},
		Retriever: RetrieverConfig{
			Kind:   "vector",
			TopK:   2,
			Metric: "cosine",
			K1:     1.2,
			B:      0.75,
		},
		Generator: GeneratorConfig{
			Provider:    "openai",
			Model:       "gpt-3.5-turbo",
			Temperature: 0.3,
			Stream:      false,
			APIKeyEnv:   "OPENAI_API_KEY",
		},
		TextSplitter: TextSplitterConfig{
			SplitBy:      "sentence",
			ChunkSize:    1,
			ChunkOverlap: 0,
		},
		Assembler: AssemblerConfig{
			Separator:   " ",
			Deduplicate: true,
		},
		Storage: StorageConfig{
			Path: ".ragpipe/corpus.db",
		},
	}
}

// Validate checks the configuration invariants that would otherwise only
// surface mid-pipeline.
func (c *Config) Validate() error {
	if c.Vectorizer.BatchSize < 1 {
		return fmt.Errorf("%w: vectorizer.batch_size must be >= 1, got %d",
			domain.ErrInvalidConfig, c.Vectorizer.BatchSize)
	}
	if c.Retriever.TopK < 1 {
		return fmt.Errorf("%w: retriever.top_k must be >= 1, got %d",
			domain.ErrInvalidConfig, c.Retriever.TopK)
	}
	switch c.Retriever.Kind {
	case "vector", "bm25", "llm":
	default:
		return fmt.Errorf("%w: unknown retriever.kind %q",
			domain.ErrInvalidConfig, c.Retriever.Kind)
	}
	switch c.Retriever.Metric {
	case "cosine", "inner_product", "l2":
	default:
		return fmt.Errorf("%w: unknown retriever.metric %q",
			domain.ErrInvalidConfig, c.Retriever.Metric)
	}
	switch c.TextSplitter.SplitBy {
	case "sentence", "word", "token", "character":
	default:
		return fmt.Errorf("%w: unknown text_splitter.split_by %q",
			domain.ErrInvalidConfig, c.TextSplitter.SplitBy)
	}
	if c.TextSplitter.ChunkSize < 1 {
		return fmt.Errorf("%w: text_splitter.chunk_size must be >= 1, got %d",
			domain.ErrInvalidSplitConfig, c.TextSplitter.ChunkSize)
	}
	if c.TextSplitter.ChunkOverlap < 0 || c.TextSplitter.ChunkOverlap >= c.TextSplitter.ChunkSize {
		return fmt.Errorf("%w: text_splitter.chunk_overlap must be in [0, chunk_size), got %d",
			domain.ErrInvalidSplitConfig, c.TextSplitter.ChunkOverlap)
	}
	return nil
}

// Load loads configuration from a YAML file, applying defaults for any
// omitted fields.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for ragpipe.yaml,
// then .ragpipe/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "ragpipe.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".ragpipe", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CorpusDBPath resolves the corpus database path relative to dir.
func (c *Config) CorpusDBPath(dir string) string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(dir, c.Storage.Path)
}

// EnsureStorageDir ensures the directory holding the corpus database exists.
func (c *Config) EnsureStorageDir(dir string) error {
	return os.MkdirAll(filepath.Dir(c.CorpusDBPath(dir)), 0755)
}
