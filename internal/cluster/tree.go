package cluster

import (
	"container/heap"
	"errors"
	"math/rand/v2"

	"github.com/viant/vecmem/metric"
)

// Config controls the shape and cost of a tree build.
type Config struct {
	// LeafSize is the input size below which a node becomes a leaf.
	LeafSize int `yaml:"leafSize"`
	// Branching is the number of clusters each internal node is split into.
	Branching int `yaml:"branching"`
	// Iterations is the fixed k-means iteration budget per split.
	Iterations int `yaml:"iterations"`
	// Seed drives the sampling of initial centroids.
	Seed uint64 `yaml:"seed"`
	// MaxDepth bounds recursion; nodes at this depth become leaves.
	MaxDepth int `yaml:"maxDepth"`
}

// Defaults.
const (
	DefaultLeafSize   = 32
	DefaultBranching  = 8
	DefaultIterations = 5
	DefaultSeed       = 42
	DefaultMaxDepth   = 32
)

// SetDefaults fills zero or invalid fields with their defaults.
func (c *Config) SetDefaults() {
	if c.LeafSize <= 0 {
		c.LeafSize = DefaultLeafSize
	}
	if c.Branching < 2 {
		c.Branching = DefaultBranching
	}
	if c.Iterations <= 0 {
		c.Iterations = DefaultIterations
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
}

// Stats describes the shape of a built tree.
type Stats struct {
	Nodes  int
	Leaves int
	Depth  int
}

// Candidate is a matrix row reached by a search, scored with the centroid
// score of its leaf.
type Candidate struct {
	Row   int
	Score float64
}

// Tree is an immutable hierarchy of k-means clusters over the rows of a
// matrix. It holds no reference to the matrix after Build returns.
// Traversal scores centroids in the geometry the tree was partitioned in.
type Tree struct {
	metric metric.Metric
	root   *Node
	stats  Stats
}

// Build clusters every row of x. The root always covers the full input.
func Build(m metric.Metric, x metric.Matrix, cfg Config) (*Tree, error) {
	if !m.Valid() {
		return nil, metric.ErrUnsupported
	}
	if x.Dim <= 0 {
		return nil, errors.New("cluster: invalid dimension")
	}
	cfg.SetDefaults()
	geo := geometry(m)
	t := &Tree{metric: geo}
	n := x.Rows()
	if n == 0 {
		return t, nil
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	b := &builder{
		cfg: cfg,
		x:   x,
		geo: geo,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		t:   t,
	}
	t.root = b.build(rows, 1)
	return t, nil
}

type builder struct {
	cfg Config
	x   metric.Matrix
	geo metric.Metric
	rng *rand.Rand
	t   *Tree
}

func (b *builder) build(rows []int, depth int) *Node {
	node := &Node{ordinal: b.t.stats.Nodes, centroid: mean(b.x, rows)}
	b.t.stats.Nodes++
	if depth > b.t.stats.Depth {
		b.t.stats.Depth = depth
	}
	if len(rows) < b.cfg.LeafSize || depth >= b.cfg.MaxDepth {
		return b.leaf(node, rows)
	}
	groups := partition(b.x, rows, b.cfg.Branching, b.cfg.Iterations, b.geo, b.rng)
	nonEmpty := groups[:0]
	for _, g := range groups {
		if len(g) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}
	if len(nonEmpty) < 2 {
		return b.leaf(node, rows)
	}
	children := make([]*Node, len(nonEmpty))
	for i, g := range nonEmpty {
		children[i] = b.build(g, depth+1)
	}
	node.attach(children)
	return node
}

func (b *builder) leaf(node *Node, rows []int) *Node {
	node.members = append([]int(nil), rows...)
	b.t.stats.Leaves++
	return node
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node { return t.root }

// Stats returns the node count, leaf count and depth of the tree.
func (t *Tree) Stats() Stats { return t.stats }

// Search runs a best-first traversal ordered by centroid score and returns
// the members of the visited leaves. It stops once at least 2k candidates
// were collected or the frontier is exhausted. Candidate scores are leaf
// centroid scores in the partition geometry (cosine for cosine trees,
// Euclidean distance otherwise) and only approximate the true item scores.
func (t *Tree) Search(query []float32, k int) []Candidate {
	if t.root == nil || k <= 0 {
		return nil
	}
	limit := 2 * k
	pq := &nodeQueue{metric: t.metric}
	heap.Push(pq, nodeItem{node: t.root, score: t.metric.Score(query, t.root.centroid)})
	var result []Candidate
	var scores []float64
	for pq.Len() > 0 && len(result) < limit {
		top := heap.Pop(pq).(nodeItem)
		if top.node.Leaf() {
			for _, row := range top.node.members {
				result = append(result, Candidate{Row: row, Score: top.score})
			}
			continue
		}
		scores = t.metric.Batch(top.node.packed, query, scores)
		for i, child := range top.node.children {
			heap.Push(pq, nodeItem{node: child, score: scores[i]})
		}
	}
	return result
}

type nodeItem struct {
	node  *Node
	score float64
}

// nodeQueue pops the most promising node first; equal scores fall back to
// build order so traversal is deterministic.
type nodeQueue struct {
	metric metric.Metric
	items  []nodeItem
}

func (q *nodeQueue) Len() int { return len(q.items) }
func (q *nodeQueue) Less(i, j int) bool {
	ki, kj := q.metric.Key(q.items[i].score), q.metric.Key(q.items[j].score)
	if ki != kj {
		return ki > kj
	}
	return q.items[i].node.ordinal < q.items[j].node.ordinal
}
func (q *nodeQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }
func (q *nodeQueue) Push(x any)    { q.items = append(q.items, x.(nodeItem)) }
func (q *nodeQueue) Pop() any {
	old := q.items
	n := len(old)
	x := old[n-1]
	q.items = old[:n-1]
	return x
}
