package index

import "github.com/viant/vecmem/metric"

// Match is a single search hit. Score carries the metric's natural value.
type Match struct {
	ID    string
	Score float64
}

// Index defines a vector index that is built in bulk from (id, embedding)
// pairs and answers kNN queries.
type Index interface {
	// Build constructs the index from ids and the rows of vectors.
	// len(ids) must equal vectors.Rows().
	Build(ids []string, vectors metric.Matrix) error

	// Search returns up to k matches ordered best first according to the
	// index metric. Approximate implementations may instead over-generate
	// candidates whose scores only estimate the true query-to-item score.
	Search(query []float32, k int) ([]Match, error)

	// Len returns the number of indexed vectors.
	Len() int
}
