package metric

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/viant/vec/search"
)

// Metric names a supported similarity metric.
type Metric string

const (
	// Cosine is the cosine similarity of two vectors; higher is better.
	Cosine Metric = "cosine"
	// Euclidean is the L2 distance; lower is better.
	Euclidean Metric = "euclidean"
	// DotProduct is the raw inner product; higher is better.
	DotProduct Metric = "dot_product"
	// Manhattan is the L1 distance; lower is better.
	Manhattan Metric = "manhattan"
)

// ErrUnsupported is returned by Parse for unknown metric names.
var ErrUnsupported = errors.New("metric: unsupported metric")

// Parse resolves a metric name. Matching is case-insensitive and accepts the
// common short aliases (cos, l2, dot, l1).
func Parse(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cosine", "cos":
		return Cosine, nil
	case "euclidean", "l2":
		return Euclidean, nil
	case "dot_product", "dot", "dotproduct", "inner_product", "ip":
		return DotProduct, nil
	case "manhattan", "l1":
		return Manhattan, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, name)
}

// Valid reports whether m is one of the supported metrics.
func (m Metric) Valid() bool {
	switch m {
	case Cosine, Euclidean, DotProduct, Manhattan:
		return true
	}
	return false
}

// IsDistance reports whether lower scores are better for m.
func (m Metric) IsDistance() bool {
	switch m {
	case Cosine, DotProduct:
		return false
	case Euclidean, Manhattan:
		return true
	}
	panic(unsupported(m))
}

// Key converts a natural score into a sort key where higher is always
// better: similarities are returned as is, distances are negated.
func (m Metric) Key(score float64) float64 {
	if m.IsDistance() {
		return -score
	}
	return score
}

// Better reports whether score a ranks strictly ahead of score b.
func (m Metric) Better(a, b float64) bool {
	return m.Key(a) > m.Key(b)
}

// Passes reports whether score satisfies threshold. For similarities the
// score must be at least threshold. For distances the score must be at most
// threshold; a threshold <= 0 disables distance filtering.
func (m Metric) Passes(score, threshold float64) bool {
	if m.IsDistance() {
		return threshold <= 0 || score <= threshold
	}
	return score >= threshold
}

// Score computes the natural metric value between two equal-length vectors.
func (m Metric) Score(a, b []float32) float64 {
	switch m {
	case Cosine:
		return cosine(a, Norm(a), b, Norm(b))
	case Euclidean:
		return float64(search.Float32s(a).EuclideanDistance(b))
	case DotProduct:
		return dot(a, b)
	case Manhattan:
		return manhattan(a, b)
	}
	panic(unsupported(m))
}

// Batch scores every row of x against query and writes the results into dst,
// which is grown when too small. The returned slice has x.Rows() elements.
func (m Metric) Batch(x Matrix, query []float32, dst []float64) []float64 {
	n := x.Rows()
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	d := x.Dim
	switch m {
	case Cosine:
		qm := Norm(query)
		for i := 0; i < n; i++ {
			row := x.Data[i*d : (i+1)*d]
			var rm float32
			if x.Norms != nil {
				rm = x.Norms[i]
			} else {
				rm = Norm(row)
			}
			dst[i] = cosine(query, qm, row, rm)
		}
	case Euclidean:
		q := search.Float32s(query)
		for i := 0; i < n; i++ {
			dst[i] = float64(q.EuclideanDistance(x.Data[i*d : (i+1)*d]))
		}
	case DotProduct:
		for i := 0; i < n; i++ {
			dst[i] = dot(query, x.Data[i*d:(i+1)*d])
		}
	case Manhattan:
		for i := 0; i < n; i++ {
			dst[i] = manhattan(query, x.Data[i*d:(i+1)*d])
		}
	default:
		panic(unsupported(m))
	}
	return dst
}

// Norm returns the L2 magnitude of v.
func Norm(v []float32) float32 {
	if len(v) == 0 {
		return 0
	}
	return search.Float32s(v).Magnitude()
}

func cosine(a []float32, am float32, b []float32, bm float32) float64 {
	if am == 0 || bm == 0 {
		return 0
	}
	sim := dot(a, b) / (float64(am) * float64(bm))
	// float32 rounding can push identical vectors slightly past 1.
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return sim
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func manhattan(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += math.Abs(float64(a[i]) - float64(b[i]))
	}
	return s
}

func unsupported(m Metric) string {
	return fmt.Sprintf("metric: unsupported metric %q", string(m))
}
