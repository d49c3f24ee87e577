package cluster

import (
	"fmt"

	"github.com/viant/vecmem/index"
	"github.com/viant/vecmem/internal/cluster"
	"github.com/viant/vecmem/metric"
)

// Config controls tree shape; zero fields take defaults.
type Config = cluster.Config

// Stats describes the built tree.
type Stats = cluster.Stats

// Index is the approximate kNN index backed by a hierarchical cluster tree.
// It must be rebuilt after the indexed collection changes.
type Index struct {
	metric metric.Metric
	config Config
	dim    int
	ids    []string
	tree   *cluster.Tree
}

// Compile-time interface check.
var _ index.Index = (*Index)(nil)

// New creates an empty index for metric m.
func New(m metric.Metric, cfg Config) *Index {
	cfg.SetDefaults()
	return &Index{metric: m, config: cfg}
}

// Build clusters the rows of vectors. ids are copied; the matrix is only read
// during the call.
func (i *Index) Build(ids []string, vectors metric.Matrix) error {
	if len(ids) != vectors.Rows() {
		return fmt.Errorf("cluster: ids and vectors length mismatch: %d != %d", len(ids), vectors.Rows())
	}
	tree, err := cluster.Build(i.metric, vectors, i.config)
	if err != nil {
		return fmt.Errorf("cluster: build: %w", err)
	}
	i.ids = append([]string(nil), ids...)
	i.dim = vectors.Dim
	i.tree = tree
	return nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.ids) }

// Search returns between k and 2k candidates (fewer when the index is
// smaller) in traversal order. Scores are leaf centroid scores; callers
// must rescore candidates against their embeddings before ranking.
func (i *Index) Search(query []float32, k int) ([]index.Match, error) {
	if i.tree == nil || len(i.ids) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("cluster: query dim %d != index dim %d", len(query), i.dim)
	}
	candidates := i.tree.Search(query, k)
	out := make([]index.Match, len(candidates))
	for j, c := range candidates {
		out[j] = index.Match{ID: i.ids[c.Row], Score: c.Score}
	}
	return out, nil
}

// Stats returns the shape of the current tree.
func (i *Index) Stats() Stats {
	if i.tree == nil {
		return Stats{}
	}
	return i.tree.Stats()
}

// Reset drops the tree and ids.
func (i *Index) Reset() {
	i.ids = nil
	i.tree = nil
	i.dim = 0
}
