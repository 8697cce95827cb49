package retriever

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"ragpipe/internal/domain"
)

type posting struct {
	docIdx int
	tf     int
}

// BM25Retriever is a lexical alternative to the vector retriever: it
// indexes term frequencies over the document sequence and scores queries
// with BM25. No embedding backend is required.
type BM25Retriever struct {
	k1 float64
	b  float64

	built    bool
	n        int
	avgLen   float64
	lengths  []int
	postings map[string][]posting
}

// NewBM25Retriever creates a BM25 retriever with the usual k1/b parameters.
func NewBM25Retriever(k1, b float64) *BM25Retriever {
	return &BM25Retriever{k1: k1, b: b}
}

// BuildIndex tokenizes the documents and builds the postings lists, keyed
// by document position.
func (r *BM25Retriever) BuildIndex(docs []domain.Document) error {
	if len(docs) == 0 {
		return domain.ErrIndexEmpty
	}

	r.n = len(docs)
	r.lengths = make([]int, len(docs))
	r.postings = make(map[string][]posting)

	totalLen := 0
	for i, doc := range docs {
		tokens := tokenize(doc.Text)
		r.lengths[i] = len(tokens)
		totalLen += len(tokens)

		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		for term, count := range tf {
			r.postings[term] = append(r.postings[term], posting{docIdx: i, tf: count})
		}
	}

	r.avgLen = float64(totalLen) / float64(len(docs))
	if r.avgLen == 0 {
		r.avgLen = 1
	}
	r.built = true
	return nil
}

// Retrieve scores the query against the index and returns the top-k
// documents by descending BM25 score, ties broken by ascending position.
func (r *BM25Retriever) Retrieve(query string, topK int) (domain.RetrievalResult, error) {
	if !r.built {
		return domain.RetrievalResult{}, domain.ErrIndexNotBuilt
	}
	if topK < 1 {
		return domain.RetrievalResult{}, fmt.Errorf("%w: top_k must be >= 1, got %d", domain.ErrInvalidConfig, topK)
	}

	scores := make(map[int]float64)
	for _, term := range tokenize(query) {
		postings, ok := r.postings[term]
		if !ok {
			continue
		}

		n := float64(len(postings))
		idf := math.Log((float64(r.n)-n+0.5)/(n+0.5) + 1)

		for _, p := range postings {
			dl := float64(r.lengths[p.docIdx])
			tf := float64(p.tf)
			scores[p.docIdx] += idf * (tf * (r.k1 + 1)) / (tf + r.k1*(1-r.b+r.b*dl/r.avgLen))
		}
	}

	// Rank every indexed document, zero scores included, so a large topK
	// returns the whole corpus rather than only term-matching documents.
	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, r.n)
	for i := range ranked {
		ranked[i] = scored{idx: i, score: scores[i]}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].idx < ranked[j].idx
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}

	result := domain.RetrievalResult{
		Query:      query,
		DocIndexes: make([]int, topK),
		Scores:     make([]float64, topK),
	}
	for i := 0; i < topK; i++ {
		result.DocIndexes[i] = ranked[i].idx
		result.Scores[i] = ranked[i].score
	}
	return result, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
