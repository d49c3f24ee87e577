package cluster

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/viant/vecmem/metric"
)

// blobs generates groups of points around well separated axis centers.
func blobs(groups, perGroup, dim int) metric.Matrix {
	rng := rand.New(rand.NewPCG(7, 11))
	var vectors [][]float32
	for g := 0; g < groups; g++ {
		for i := 0; i < perGroup; i++ {
			v := make([]float32, dim)
			v[g%dim] = 10
			for j := range v {
				v[j] += float32(rng.Float64()*0.2 - 0.1)
			}
			vectors = append(vectors, v)
		}
	}
	return metric.NewMatrix(dim, vectors)
}

func collectMembers(n *Node, out *[]int) {
	if n.Leaf() {
		*out = append(*out, n.Members()...)
		return
	}
	for _, child := range n.Children() {
		collectMembers(child, out)
	}
}

func TestBuild_LeavesPartitionAllRows(t *testing.T) {
	x := blobs(4, 50, 8)
	tree, err := Build(metric.Cosine, x, Config{LeafSize: 16, Branching: 4})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	var members []int
	collectMembers(tree.Root(), &members)
	if len(members) != x.Rows() {
		t.Fatalf("leaves hold %d rows, want %d", len(members), x.Rows())
	}
	sort.Ints(members)
	for i, row := range members {
		if row != i {
			t.Fatalf("row %d missing or duplicated", i)
		}
	}
	stats := tree.Stats()
	if stats.Leaves < 2 || stats.Nodes <= stats.Leaves || stats.Depth < 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestBuild_RootCentroidIsMean(t *testing.T) {
	x := metric.NewMatrix(2, [][]float32{{0, 0}, {2, 4}, {4, 2}})
	tree, err := Build(metric.Euclidean, x, Config{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	c := tree.Root().Centroid()
	if c[0] != 2 || c[1] != 2 {
		t.Fatalf("root centroid = %v, want [2 2]", c)
	}
	if !tree.Root().Leaf() {
		t.Fatalf("small input should build a single leaf")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	x := blobs(3, 40, 6)
	a, err := Build(metric.Euclidean, x, Config{LeafSize: 8})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	b, err := Build(metric.Euclidean, x, Config{LeafSize: 8})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	var ma, mb []int
	collectMembers(a.Root(), &ma)
	collectMembers(b.Root(), &mb)
	for i := range ma {
		if ma[i] != mb[i] {
			t.Fatalf("builds with the same seed differ at %d", i)
		}
	}
	if a.Stats() != b.Stats() {
		t.Fatalf("stats differ: %+v vs %+v", a.Stats(), b.Stats())
	}
}

func TestBuild_IdenticalPointsTerminate(t *testing.T) {
	vectors := make([][]float32, 100)
	for i := range vectors {
		vectors[i] = []float32{1, 1, 1}
	}
	tree, err := Build(metric.Cosine, metric.NewMatrix(3, vectors), Config{LeafSize: 4})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := tree.Stats().Leaves; got != 1 {
		t.Fatalf("identical points built %d leaves, want 1", got)
	}
}

func TestSearch_FindsQueryCluster(t *testing.T) {
	x := blobs(4, 50, 8)
	tree, err := Build(metric.Cosine, x, Config{LeafSize: 16, Branching: 4})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	query := make([]float32, 8)
	query[2] = 1
	got := tree.Search(query, 5)
	if len(got) < 5 {
		t.Fatalf("Search returned %d candidates, want at least 5", len(got))
	}
	// rows 100..149 were generated around axis 2.
	inCluster := 0
	for _, c := range got {
		if c.Row >= 100 && c.Row < 150 {
			inCluster++
		}
	}
	if inCluster < 5 {
		t.Fatalf("only %d of %d candidates come from the query cluster", inCluster, len(got))
	}
	if tree.Search(query, 0) != nil {
		t.Fatalf("k=0 should return no candidates")
	}
}

func TestSearch_ExhaustsSmallTree(t *testing.T) {
	x := metric.NewMatrix(2, [][]float32{{1, 0}, {0, 1}})
	tree, err := Build(metric.DotProduct, x, Config{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := tree.Search([]float32{1, 0}, 10); len(got) != 2 {
		t.Fatalf("Search returned %d candidates, want 2", len(got))
	}
}

func TestBuild_Empty(t *testing.T) {
	tree, err := Build(metric.Cosine, metric.Matrix{Dim: 3}, Config{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if tree.Root() != nil || tree.Search([]float32{1, 0, 0}, 3) != nil {
		t.Fatalf("empty tree should have no root and no candidates")
	}
	if _, err := Build(metric.Metric("hamming"), metric.Matrix{Dim: 3}, Config{}); err == nil {
		t.Fatalf("expected unsupported metric error")
	}
}

func TestBuild_TraversalGeometry(t *testing.T) {
	x := blobs(2, 10, 4)
	testCases := []struct {
		metric metric.Metric
		want   metric.Metric
	}{
		{metric.Cosine, metric.Cosine},
		{metric.Euclidean, metric.Euclidean},
		{metric.DotProduct, metric.Euclidean},
		{metric.Manhattan, metric.Euclidean},
	}
	for _, tc := range testCases {
		tree, err := Build(tc.metric, x, Config{})
		if err != nil {
			t.Fatalf("%s: Build failed: %v", tc.metric, err)
		}
		if tree.metric != tc.want {
			t.Fatalf("%s: traversal metric = %s, want %s", tc.metric, tree.metric, tc.want)
		}
	}
}

func TestSearch_SelfRecall(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	vectors := make([][]float32, 1000)
	for i := range vectors {
		v := make([]float32, 8)
		for j := range v {
			v[j] = float32(rng.Float64()*2 - 1)
		}
		vectors[i] = v
	}
	x := metric.NewMatrix(8, vectors)
	for _, m := range []metric.Metric{metric.Euclidean, metric.Manhattan} {
		tree, err := Build(m, x, Config{})
		if err != nil {
			t.Fatalf("%s: Build failed: %v", m, err)
		}
		hits := 0
		for row := 0; row < 300; row++ {
			for _, c := range tree.Search(x.Row(row), 5) {
				if c.Row == row {
					hits++
					break
				}
			}
		}
		if hits < 240 {
			t.Fatalf("%s: self recall %d/300, want at least 240", m, hits)
		}
	}
}
