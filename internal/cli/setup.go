package cli

import (
	"fmt"

	"ragpipe/config"
	"ragpipe/internal/adapter/embedding"
	"ragpipe/internal/adapter/index"
	"ragpipe/internal/adapter/llm"
	"ragpipe/internal/adapter/retriever"
	"ragpipe/internal/port"
	"ragpipe/internal/usecase"
)

// newEmbedder wires the configured embedding backend into a batching
// Embedder.
func newEmbedder(cfg *config.Config) (*usecase.Embedder, error) {
	var backend port.EmbeddingBackend
	var err error

	switch cfg.Vectorizer.Provider {
	case "mock":
		backend = embedding.NewMockEmbedder(cfg.Vectorizer.ModelKwargs.Dimensions)
	case "openai":
		kw := cfg.Vectorizer.ModelKwargs
		if cfg.Vectorizer.BaseURL != "" {
			backend, err = embedding.NewOpenAICompatibleEmbedder(
				cfg.Vectorizer.APIKeyEnv, kw.Model, cfg.Vectorizer.BaseURL, kw.Dimensions, kw.EncodingFormat)
		} else {
			backend, err = embedding.NewOpenAIEmbedder(
				cfg.Vectorizer.APIKeyEnv, kw.Model, kw.Dimensions, kw.EncodingFormat)
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown vectorizer provider: %s", cfg.Vectorizer.Provider)
	}

	return usecase.NewEmbedder(backend, cfg.Vectorizer.BatchSize)
}

// newGenerationBackend wires the configured chat backend.
func newGenerationBackend(cfg *config.Config) (port.GenerationBackend, error) {
	switch cfg.Generator.Provider {
	case "mock":
		return &llm.MockClient{Reply: func(sys, user string) (string, error) {
			return `{"answer": "mock generator is configured; set generator.provider to openai"}`, nil
		}}, nil
	case "openai":
		if cfg.Generator.BaseURL != "" {
			return llm.NewOpenAICompatibleClient(
				cfg.Generator.APIKeyEnv, cfg.Generator.Model, cfg.Generator.BaseURL,
				cfg.Generator.Temperature, cfg.Generator.Stream)
		}
		return llm.NewOpenAIClient(
			cfg.Generator.APIKeyEnv, cfg.Generator.Model,
			cfg.Generator.Temperature, cfg.Generator.Stream)
	default:
		return nil, fmt.Errorf("unknown generator provider: %s", cfg.Generator.Provider)
	}
}

// newRetriever wires the configured retriever kind.
func newRetriever(cfg *config.Config, embedder *usecase.Embedder) (port.Retriever, error) {
	switch cfg.Retriever.Kind {
	case "bm25":
		return retriever.NewBM25Retriever(cfg.Retriever.K1, cfg.Retriever.B), nil
	case "llm":
		backend, err := newGenerationBackend(cfg)
		if err != nil {
			return nil, err
		}
		return retriever.NewLLMRetriever(backend), nil
	case "vector":
		return retriever.NewVectorRetriever(embedder, index.Metric(cfg.Retriever.Metric))
	default:
		return nil, fmt.Errorf("unknown retriever kind: %s", cfg.Retriever.Kind)
	}
}

// printUsage reports the embedding cost counters.
func printUsage(embedder *usecase.Embedder) {
	u := embedder.Usage()
	fmt.Printf("Embedding usage: %d calls, ~%d tokens\n", u.Calls(), u.Tokens())
}
