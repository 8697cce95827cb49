package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.json"), `[{"title": "Second", "text": "second text"}]`)
	writeFile(t, filepath.Join(dir, "a.json"), `[{"id": "fixed", "title": "First", "text": "first text"}]`)

	docs, err := Load([]string{filepath.Join(dir, "*.json")})
	if err != nil {
		t.Fatal(err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	// Files load in sorted path order: a.json before b.json.
	if docs[0].Meta.Title != "First" || docs[1].Meta.Title != "Second" {
		t.Errorf("documents out of order: %v", docs)
	}
	if docs[0].ID != "fixed" {
		t.Errorf("explicit record ID not preserved: %q", docs[0].ID)
	}
	if docs[1].ID == "" {
		t.Error("missing record ID was not minted")
	}
}

func TestLoadNoMatches(t *testing.T) {
	if _, err := Load([]string{filepath.Join(t.TempDir(), "*.json")}); err == nil {
		t.Error("expected error when no corpus files match")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.json"), `{"not": "an array"}`)

	if _, err := Load([]string{filepath.Join(dir, "bad.json")}); err == nil {
		t.Error("expected error for malformed corpus file")
	}
}
