package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"ragpipe/internal/domain"
)

// Record is one raw corpus entry as found on disk.
type Record struct {
	ID    string            `json:"id,omitempty"`
	Title string            `json:"title"`
	Text  string            `json:"text"`
	Extra map[string]string `json:"extra,omitempty"`
}

// Load reads corpus records from every JSON file matching the glob
// patterns and returns them as raw documents. Each file holds a JSON array
// of records. Files are processed in sorted path order so the resulting
// document sequence is stable across runs.
func Load(patterns []string) ([]domain.Document, error) {
	var paths []string
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid corpus pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				paths = append(paths, m)
			}
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no corpus files matched patterns %v", patterns)
	}
	sort.Strings(paths)

	var docs []domain.Document
	for _, path := range paths {
		records, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load corpus file %s: %w", path, err)
		}
		docs = append(docs, records...)
	}
	return docs, nil
}

func loadFile(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("expected a JSON array of {title, text} records: %w", err)
	}

	docs := make([]domain.Document, 0, len(records))
	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		docs = append(docs, domain.Document{
			ID:   id,
			Text: rec.Text,
			Meta: domain.Meta{Title: rec.Title, Extra: rec.Extra},
		})
	}
	return docs, nil
}
