package index

import (
	"fmt"
	"math"
	"sort"

	"ragpipe/internal/domain"
)

// Metric selects the similarity function for the flat index.
type Metric string

const (
	MetricCosine       Metric = "cosine"
	MetricInnerProduct Metric = "inner_product"
	MetricL2           Metric = "l2"
)

// FlatIndex is an exact nearest-neighbor index keyed by the vector's
// position in the build input. Dimensionality is fixed at build time.
// Results are ordered by descending similarity, ties broken by ascending
// position, so a given query always returns the same ranking.
type FlatIndex struct {
	metric  Metric
	dim     int
	vectors [][]float32
	built   bool
}

// NewFlatIndex creates a flat index using the given metric.
func NewFlatIndex(metric Metric) (*FlatIndex, error) {
	switch metric {
	case MetricCosine, MetricInnerProduct, MetricL2:
	default:
		return nil, fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidConfig, metric)
	}
	return &FlatIndex{metric: metric}, nil
}

// Build loads the vectors. Position i in vectors is the doc index returned
// by Search.
func (x *FlatIndex) Build(vectors [][]float32) error {
	if len(vectors) == 0 {
		return domain.ErrIndexEmpty
	}

	dim := len(vectors[0])
	if dim == 0 {
		return fmt.Errorf("%w: vector 0 is empty", domain.ErrDimensionMismatch)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has dimension %d, expected %d",
				domain.ErrDimensionMismatch, i, len(v), dim)
		}
	}

	x.dim = dim
	x.vectors = vectors
	x.built = true
	return nil
}

// Size returns the number of indexed vectors.
func (x *FlatIndex) Size() int {
	return len(x.vectors)
}

// Search returns the k nearest positions and their scores. If k exceeds
// the index size, all positions are returned.
func (x *FlatIndex) Search(query []float32, k int) ([]int, []float64, error) {
	if !x.built {
		return nil, nil, domain.ErrIndexNotBuilt
	}
	if len(query) != x.dim {
		return nil, nil, fmt.Errorf("%w: query has dimension %d, expected %d",
			domain.ErrDimensionMismatch, len(query), x.dim)
	}
	if k < 1 {
		return nil, nil, fmt.Errorf("%w: top_k must be >= 1, got %d", domain.ErrInvalidConfig, k)
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(x.vectors))
	for i, v := range x.vectors {
		scores[i] = scored{idx: i, score: x.similarity(query, v)}
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].idx < scores[j].idx
	})

	if k > len(scores) {
		k = len(scores)
	}

	indexes := make([]int, k)
	out := make([]float64, k)
	for i := 0; i < k; i++ {
		indexes[i] = scores[i].idx
		out[i] = scores[i].score
	}
	return indexes, out, nil
}

// similarity scores a pair so that higher is always better; L2 distance is
// negated to keep the descending-order contract uniform.
func (x *FlatIndex) similarity(a, b []float32) float64 {
	switch x.metric {
	case MetricInnerProduct:
		return dot(a, b)
	case MetricL2:
		var sum float64
		for i := range a {
			d := float64(a[i]) - float64(b[i])
			sum += d * d
		}
		return -math.Sqrt(sum)
	default: // MetricCosine
		na := math.Sqrt(dot(a, a))
		nb := math.Sqrt(dot(b, b))
		if na == 0 || nb == 0 {
			return 0
		}
		return dot(a, b) / (na * nb)
	}
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
