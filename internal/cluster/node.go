package cluster

import "github.com/viant/vecmem/metric"

// Node is a hierarchical cluster node. Internal nodes keep their children's
// centroids packed in a matrix so a query scores all of them in one batch.
type Node struct {
	ordinal  int
	centroid []float32
	members  []int
	children []*Node
	packed   metric.Matrix
}

// Centroid returns the mean of every embedding under the node.
func (n *Node) Centroid() []float32 { return n.centroid }

// Leaf reports whether the node holds members directly.
func (n *Node) Leaf() bool { return len(n.children) == 0 }

// Members returns the matrix rows held by a leaf.
func (n *Node) Members() []int { return n.members }

// Children returns the child nodes of an internal node.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) attach(children []*Node) {
	n.children = children
	centroids := make([][]float32, len(children))
	for i, child := range children {
		centroids[i] = child.centroid
	}
	n.packed = metric.NewMatrix(len(n.centroid), centroids)
}

// mean returns the element-wise mean of rows of x, accumulating in float64.
func mean(x metric.Matrix, rows []int) []float32 {
	acc := make([]float64, x.Dim)
	for _, row := range rows {
		for j, v := range x.Row(row) {
			acc[j] += float64(v)
		}
	}
	out := make([]float32, x.Dim)
	if len(rows) == 0 {
		return out
	}
	n := float64(len(rows))
	for j := range acc {
		out[j] = float32(acc[j] / n)
	}
	return out
}
