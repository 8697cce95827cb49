package store

import (
	"testing"

	"ragpipe/internal/domain"
)

func TestDocumentStoreOrdering(t *testing.T) {
	s := NewDocumentStore()
	docs := []domain.Document{
		{ID: "a", Text: "first"},
		{ID: "b", Text: "second"},
		{ID: "c", Text: "third"},
	}
	s.Load("indexed", docs)

	got := s.Get("indexed")
	for i, d := range docs {
		if got[i].ID != d.ID {
			t.Errorf("position %d: expected %q, got %q", i, d.ID, got[i].ID)
		}
	}
}

func TestDocumentStoreResolve(t *testing.T) {
	s := NewDocumentStore()
	s.Load("indexed", []domain.Document{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	})

	docs, err := s.Resolve("indexed", []int{2, 0})
	if err != nil {
		t.Fatal(err)
	}
	if docs[0].ID != "c" || docs[1].ID != "a" {
		t.Errorf("resolve returned wrong documents: %v", docs)
	}

	if _, err := s.Resolve("indexed", []int{3}); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if _, err := s.Resolve("indexed", []int{-1}); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestDocumentStoreLoadCopies(t *testing.T) {
	s := NewDocumentStore()
	docs := []domain.Document{{ID: "a", Text: "original"}}
	s.Load(StageRaw, docs)

	docs[0].Text = "mutated"

	if got := s.Get(StageRaw); got[0].Text != "original" {
		t.Error("store shares backing slice with caller")
	}
}
