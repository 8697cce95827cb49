package splitter

import (
	"fmt"
	"strings"
	"unicode"

	"ragpipe/internal/domain"
)

// Unit is the splitting granularity.
type Unit string

const (
	UnitSentence  Unit = "sentence"
	UnitWord      Unit = "word"
	UnitToken     Unit = "token"
	UnitCharacter Unit = "character"
)

// TextSplitter splits a document into windows of size units, consecutive
// windows sharing overlap units. Splitting is deterministic: the same
// document and config always produce byte-identical chunks in the same
// order.
type TextSplitter struct {
	unit    Unit
	size    int
	overlap int
}

// NewTextSplitter validates the split parameters and returns a splitter.
func NewTextSplitter(unit Unit, size, overlap int) (*TextSplitter, error) {
	switch unit {
	case UnitSentence, UnitWord, UnitToken, UnitCharacter:
	default:
		return nil, fmt.Errorf("%w: unknown unit %q", domain.ErrInvalidSplitConfig, unit)
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: size must be >= 1, got %d", domain.ErrInvalidSplitConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, size), got %d", domain.ErrInvalidSplitConfig, overlap)
	}
	return &TextSplitter{unit: unit, size: size, overlap: overlap}, nil
}

// Name implements port.Transformer.
func (s *TextSplitter) Name() string { return "split" }

// Transform splits every input document and returns the chunks in input
// order. Implements port.Transformer.
func (s *TextSplitter) Transform(docs []domain.Document) ([]domain.Document, error) {
	var out []domain.Document
	for _, doc := range docs {
		out = append(out, s.Split(doc)...)
	}
	return out, nil
}

// Split splits a single document into child documents. Children carry the
// parent's metadata and reference it through ParentDocID.
func (s *TextSplitter) Split(doc domain.Document) []domain.Document {
	units, sep := s.units(doc.Text)
	if len(units) == 0 {
		return nil
	}

	step := s.size - s.overlap
	var chunks []domain.Document

	for start := 0; start < len(units); start += step {
		end := start + s.size
		if end > len(units) {
			end = len(units)
		}

		chunks = append(chunks, domain.Document{
			ID:          fmt.Sprintf("%s-%d", doc.ID, len(chunks)),
			Text:        strings.Join(units[start:end], sep),
			Meta:        doc.Meta,
			ParentDocID: doc.ID,
		})

		if end == len(units) {
			break
		}
	}

	return chunks
}

// units breaks text into the configured unit sequence and returns the
// separator used to rejoin a window into chunk text.
func (s *TextSplitter) units(text string) ([]string, string) {
	switch s.unit {
	case UnitSentence:
		return splitSentences(text), " "
	case UnitWord:
		return strings.Fields(text), " "
	case UnitToken:
		return splitTokens(text), " "
	default: // UnitCharacter
		runes := []rune(text)
		units := make([]string, len(runes))
		for i, r := range runes {
			units[i] = string(r)
		}
		return units, ""
	}
}

// splitSentences splits on terminal punctuation (., !, ?), keeping the
// terminator with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// splitTokens lowercases and splits on non-alphanumeric boundaries.
func splitTokens(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}
