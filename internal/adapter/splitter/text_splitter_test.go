package splitter

import (
	"errors"
	"reflect"
	"testing"

	"ragpipe/internal/domain"
)

func TestSplitterInvalidConfig(t *testing.T) {
	cases := []struct {
		name    string
		unit    Unit
		size    int
		overlap int
	}{
		{"zero size", UnitWord, 0, 0},
		{"negative size", UnitWord, -1, 0},
		{"overlap equals size", UnitWord, 3, 3},
		{"overlap exceeds size", UnitWord, 3, 5},
		{"negative overlap", UnitWord, 3, -1},
		{"unknown unit", Unit("paragraph"), 3, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTextSplitter(tc.unit, tc.size, tc.overlap)
			if !errors.Is(err, domain.ErrInvalidSplitConfig) {
				t.Errorf("expected ErrInvalidSplitConfig, got %v", err)
			}
		})
	}
}

func TestSplitSentenceWindows(t *testing.T) {
	s, err := NewTextSplitter(UnitSentence, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	doc := domain.Document{
		ID:   "doc1",
		Text: "First sentence. Second sentence. Third sentence.",
		Meta: domain.Meta{Title: "t"},
	}

	chunks := s.Split(doc)
	want := []string{
		"First sentence. Second sentence.",
		"Second sentence. Third sentence.",
	}

	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, c := range chunks {
		if c.Text != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], c.Text)
		}
		if c.ParentDocID != "doc1" {
			t.Errorf("chunk %d: expected parent doc1, got %q", i, c.ParentDocID)
		}
		if c.Meta.Title != "t" {
			t.Errorf("chunk %d: metadata not inherited", i)
		}
		if c.Vector != nil {
			t.Errorf("chunk %d: vector should be nil before embedding", i)
		}
	}
}

func TestSplitWordOverlap(t *testing.T) {
	s, err := NewTextSplitter(UnitWord, 3, 1)
	if err != nil {
		t.Fatal(err)
	}

	chunks := s.Split(domain.Document{ID: "d", Text: "a b c d e"})
	want := []string{"a b c", "c d e"}

	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i].Text)
		}
	}
}

func TestSplitCharacter(t *testing.T) {
	s, err := NewTextSplitter(UnitCharacter, 4, 0)
	if err != nil {
		t.Fatal(err)
	}

	chunks := s.Split(domain.Document{ID: "d", Text: "abcdefgh"})
	want := []string{"abcd", "efgh"}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i].Text)
		}
	}
}

func TestSplitDeterminism(t *testing.T) {
	s, err := NewTextSplitter(UnitToken, 5, 2)
	if err != nil {
		t.Fatal(err)
	}

	doc := domain.Document{
		ID:   "doc1",
		Text: "The quick brown fox jumps over the lazy dog, twice in a row.",
	}

	first := s.Split(doc)
	second := s.Split(doc)

	if !reflect.DeepEqual(first, second) {
		t.Error("re-splitting the same document produced different chunks")
	}
}

func TestSplitEmptyDocument(t *testing.T) {
	s, err := NewTextSplitter(UnitSentence, 2, 0)
	if err != nil {
		t.Fatal(err)
	}

	if chunks := s.Split(domain.Document{ID: "d", Text: ""}); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestTransformPreservesDocumentOrder(t *testing.T) {
	s, err := NewTextSplitter(UnitSentence, 1, 0)
	if err != nil {
		t.Fatal(err)
	}

	docs := []domain.Document{
		{ID: "a", Text: "One. Two."},
		{ID: "b", Text: "Three."},
	}

	out, err := s.Transform(docs)
	if err != nil {
		t.Fatal(err)
	}

	wantParents := []string{"a", "a", "b"}
	if len(out) != len(wantParents) {
		t.Fatalf("expected %d chunks, got %d", len(wantParents), len(out))
	}
	for i, p := range wantParents {
		if out[i].ParentDocID != p {
			t.Errorf("chunk %d: expected parent %q, got %q", i, p, out[i].ParentDocID)
		}
	}
}
