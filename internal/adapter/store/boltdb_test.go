package store

import (
	"path/filepath"
	"testing"

	"ragpipe/internal/domain"
)

func TestBoltCorpusRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")

	s, err := OpenBoltCorpusStore(path)
	if err != nil {
		t.Fatal(err)
	}

	docs := []domain.Document{
		{ID: "c0", Text: "zero", ParentDocID: "doc1", Vector: []float32{1, 0}},
		{ID: "c1", Text: "one", ParentDocID: "doc1", Vector: []float32{0, 1}},
		{ID: "c2", Text: "two", ParentDocID: "doc2", Vector: []float32{1, 1}},
	}
	meta := CorpusMeta{EmbeddingModel: "mock", Dimension: 2}

	if err := s.SaveCorpus(docs, meta); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen to prove persistence, not just in-memory state.
	s, err = OpenBoltCorpusStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	loaded, loadedMeta, err := s.LoadCorpus()
	if err != nil {
		t.Fatal(err)
	}

	if loadedMeta.EmbeddingModel != "mock" || loadedMeta.Dimension != 2 || loadedMeta.Count != 3 {
		t.Errorf("unexpected metadata: %+v", loadedMeta)
	}
	if len(loaded) != len(docs) {
		t.Fatalf("expected %d documents, got %d", len(docs), len(loaded))
	}
	for i, d := range docs {
		if loaded[i].ID != d.ID {
			t.Errorf("position %d: expected %q, got %q, ordering not preserved", i, d.ID, loaded[i].ID)
		}
		if len(loaded[i].Vector) != len(d.Vector) {
			t.Errorf("position %d: vector not persisted", i)
		}
	}
}

func TestBoltCorpusLoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")

	s, err := OpenBoltCorpusStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, _, err := s.LoadCorpus(); err == nil {
		t.Error("expected error loading from a fresh corpus db")
	}
}

func TestBoltCorpusSaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")

	s, err := OpenBoltCorpusStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	first := []domain.Document{{ID: "a"}, {ID: "b"}}
	if err := s.SaveCorpus(first, CorpusMeta{EmbeddingModel: "m", Dimension: 2}); err != nil {
		t.Fatal(err)
	}

	second := []domain.Document{{ID: "c"}}
	if err := s.SaveCorpus(second, CorpusMeta{EmbeddingModel: "m", Dimension: 2}); err != nil {
		t.Fatal(err)
	}

	loaded, meta, err := s.LoadCorpus()
	if err != nil {
		t.Fatal(err)
	}
	if meta.Count != 1 || len(loaded) != 1 || loaded[0].ID != "c" {
		t.Errorf("save did not replace previous corpus: %v", loaded)
	}
}
