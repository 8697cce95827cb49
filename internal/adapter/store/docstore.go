package store

import (
	"fmt"
	"sync"

	"ragpipe/internal/domain"
)

// Stage keys the transformation stages a document sequence passes through.
type Stage string

const (
	StageRaw Stage = "raw"
)

// DocumentStore is the single source of truth for document sequences across
// transformation stages. The ordering of a stage's sequence is stable for
// the lifetime of the load: position i always resolves to the same document,
// which is what lets the retriever hand back bare indexes.
type DocumentStore struct {
	mu     sync.RWMutex
	stages map[Stage][]domain.Document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		stages: make(map[Stage][]domain.Document),
	}
}

// Load replaces the document sequence for a stage.
func (s *DocumentStore) Load(stage Stage, docs []domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages[stage] = append([]domain.Document(nil), docs...)
}

// Get returns the document sequence for a stage in its stored order.
func (s *DocumentStore) Get(stage Stage) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Document(nil), s.stages[stage]...)
}

// Len returns the number of documents in a stage.
func (s *DocumentStore) Len(stage Stage) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stages[stage])
}

// Stages returns the stage keys currently loaded.
func (s *DocumentStore) Stages() []Stage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]Stage, 0, len(s.stages))
	for k := range s.stages {
		keys = append(keys, k)
	}
	return keys
}

// Resolve is the read-only join from retrieval indexes back to documents.
func (s *DocumentStore) Resolve(stage Stage, indexes []int) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.stages[stage]
	out := make([]domain.Document, len(indexes))
	for i, idx := range indexes {
		if idx < 0 || idx >= len(docs) {
			return nil, fmt.Errorf("doc index %d out of range for stage %q (%d documents)", idx, stage, len(docs))
		}
		out[i] = docs[idx]
	}
	return out, nil
}
