package usecase

import (
	"fmt"

	"ragpipe/internal/adapter/store"
	"ragpipe/internal/domain"
	"ragpipe/internal/port"
)

// Pipeline orchestrates the full RAG flow: a fixed ordered sequence of
// document transform stages feeding an index (offline), and the
// retrieve → assemble → generate chain per query (online).
type Pipeline struct {
	docStore  *store.DocumentStore
	stages    []port.Transformer
	retriever port.Retriever
	assembler *ContextAssembler
	generator *Generator
	topK      int

	indexStage store.Stage
	built      bool
}

// CallResult bundles everything a single query produced.
type CallResult struct {
	Retrieval domain.RetrievalResult
	Context   string
	Response  domain.GeneratorResponse
}

// NewPipeline composes the pipeline from its typed stages. The stage list
// is fixed at construction; there is no ad hoc re-chaining afterwards.
func NewPipeline(
	stages []port.Transformer,
	retriever port.Retriever,
	assembler *ContextAssembler,
	generator *Generator,
	topK int,
) (*Pipeline, error) {
	if retriever == nil {
		return nil, fmt.Errorf("%w: pipeline requires a retriever", domain.ErrInvalidConfig)
	}
	if topK < 1 {
		return nil, fmt.Errorf("%w: top_k must be >= 1, got %d", domain.ErrInvalidConfig, topK)
	}
	return &Pipeline{
		docStore:  store.NewDocumentStore(),
		stages:    stages,
		retriever: retriever,
		assembler: assembler,
		generator: generator,
		topK:      topK,
	}, nil
}

// BuildIndex runs the transform stages over the raw documents, records
// each stage's output in the document store, and builds the retrieval
// index over the final stage. The final stage's ordering is the ordering
// every retrieval result maps back into.
func (p *Pipeline) BuildIndex(raw []domain.Document) error {
	p.docStore.Load(store.StageRaw, raw)
	p.indexStage = store.StageRaw

	docs := raw
	for _, stage := range p.stages {
		out, err := stage.Transform(docs)
		if err != nil {
			return fmt.Errorf("stage %q failed: %w", stage.Name(), err)
		}
		p.docStore.Load(store.Stage(stage.Name()), out)
		p.indexStage = store.Stage(stage.Name())
		docs = out
	}

	if err := p.retriever.BuildIndex(docs); err != nil {
		return err
	}
	p.built = true
	return nil
}

// RestoreIndex loads an already-transformed document sequence (for example
// one persisted by a previous run) and builds the retrieval index over it,
// skipping the transform stages.
func (p *Pipeline) RestoreIndex(docs []domain.Document) error {
	stage := store.Stage("indexed")
	p.docStore.Load(stage, docs)
	p.indexStage = stage

	if err := p.retriever.BuildIndex(docs); err != nil {
		return err
	}
	p.built = true
	return nil
}

// Retrieve runs retrieval only and returns the result alongside the
// resolved documents.
func (p *Pipeline) Retrieve(query string) (domain.RetrievalResult, []domain.Document, error) {
	if !p.built {
		return domain.RetrievalResult{}, nil, domain.ErrIndexNotBuilt
	}

	result, err := p.retriever.Retrieve(query, p.topK)
	if err != nil {
		return domain.RetrievalResult{}, nil, err
	}

	docs, err := p.docStore.Resolve(p.indexStage, result.DocIndexes)
	if err != nil {
		return domain.RetrievalResult{}, nil, err
	}
	return result, docs, nil
}

// Call answers a query end to end: retrieve, assemble context, generate.
func (p *Pipeline) Call(query string) (CallResult, error) {
	result, docs, err := p.Retrieve(query)
	if err != nil {
		return CallResult{}, err
	}

	contextStr := p.assembler.Assemble(docs)
	response := p.generator.Generate(contextStr, query)

	return CallResult{
		Retrieval: result,
		Context:   contextStr,
		Response:  response,
	}, nil
}

// IndexedDocuments returns the document sequence the index was built over,
// in index order.
func (p *Pipeline) IndexedDocuments() []domain.Document {
	return p.docStore.Get(p.indexStage)
}
