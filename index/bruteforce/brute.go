package bruteforce

import (
	"fmt"
	"math"

	"github.com/viant/vecmem/index"
	"github.com/viant/vecmem/metric"
)

// Index is the exact linear search engine. It scores the query against every
// row of a dense matrix view and keeps the best k.
type Index struct {
	metric metric.Metric
	ids    []string
	matrix metric.Matrix
}

// Compile-time interface check.
var _ index.Index = (*Index)(nil)

// New creates an empty exact index for metric m.
func New(m metric.Metric) *Index {
	return &Index{metric: m}
}

// Build binds ids and the rows of vectors. The view is not copied; callers
// must rebuild after the underlying storage changes.
func (i *Index) Build(ids []string, vectors metric.Matrix) error {
	if len(ids) != vectors.Rows() {
		return fmt.Errorf("bruteforce: ids and vectors length mismatch: %d != %d", len(ids), vectors.Rows())
	}
	i.ids = ids
	i.matrix = vectors
	return nil
}

// Len returns the number of rows in the bound view.
func (i *Index) Len() int { return len(i.ids) }

// Search returns the top-k rows without threshold filtering.
func (i *Index) Search(query []float32, k int) ([]index.Match, error) {
	return i.SearchThreshold(query, k, math.Inf(-1))
}

// SearchThreshold returns up to k rows that satisfy threshold, best first.
// Equal scores keep row order.
func (i *Index) SearchThreshold(query []float32, k int, threshold float64) ([]index.Match, error) {
	if len(i.ids) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != i.matrix.Dim {
		return nil, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(query), i.matrix.Dim)
	}
	scores := i.metric.Batch(i.matrix, query, nil)
	candidates := make([]index.Scored, 0, len(scores))
	for row, s := range scores {
		if math.IsNaN(s) || !i.metric.Passes(s, threshold) {
			continue
		}
		candidates = append(candidates, index.Scored{Row: row, ID: i.ids[row], Score: s})
	}
	return index.Top(i.metric, candidates, k), nil
}
