package cluster

import (
	"math/rand/v2"

	"github.com/viant/vecmem/metric"
)

// geometry returns the metric used to assign points to centroids. Inner
// products do not define a partition, so only cosine keeps its own geometry.
func geometry(m metric.Metric) metric.Metric {
	if m == metric.Cosine {
		return metric.Cosine
	}
	return metric.Euclidean
}

// partition splits rows of x into at most c groups with a fixed number of
// Lloyd iterations. Initial centroids are sampled from rows with rng; an
// empty group keeps its previous centroid. Group order follows the sampled
// centroid order and each group keeps rows in their input order.
func partition(x metric.Matrix, rows []int, c, iterations int, geo metric.Metric, rng *rand.Rand) [][]int {
	if c > len(rows) {
		c = len(rows)
	}
	if iterations < 1 {
		iterations = 1
	}
	sub := pack(x, rows)
	centroids := make([][]float32, c)
	for i, p := range rng.Perm(len(rows))[:c] {
		centroids[i] = append([]float32(nil), sub.Row(p)...)
	}

	assign := make([]int, len(rows))
	best := make([]float64, len(rows))
	var scores []float64
	for iter := 0; iter < iterations; iter++ {
		for i := range best {
			assign[i] = -1
		}
		for ci, centroid := range centroids {
			scores = geo.Batch(sub, centroid, scores)
			for i, s := range scores {
				if assign[i] < 0 || geo.Better(s, best[i]) {
					assign[i] = ci
					best[i] = s
				}
			}
		}
		recenter(sub, assign, centroids)
	}

	groups := make([][]int, c)
	for i, ci := range assign {
		groups[ci] = append(groups[ci], rows[i])
	}
	return groups
}

// recenter moves every centroid to the mean of its assigned points.
func recenter(sub metric.Matrix, assign []int, centroids [][]float32) {
	d := sub.Dim
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for i := range sums {
		sums[i] = make([]float64, d)
	}
	for i, ci := range assign {
		counts[ci]++
		for j, v := range sub.Row(i) {
			sums[ci][j] += float64(v)
		}
	}
	for ci, n := range counts {
		if n == 0 {
			continue
		}
		for j := range sums[ci] {
			centroids[ci][j] = float32(sums[ci][j] / float64(n))
		}
	}
}

// pack copies rows of x into a dense matrix with cached norms.
func pack(x metric.Matrix, rows []int) metric.Matrix {
	out := metric.Matrix{
		Dim:   x.Dim,
		Data:  make([]float32, 0, len(rows)*x.Dim),
		Norms: make([]float32, 0, len(rows)),
	}
	for _, row := range rows {
		out.Data = append(out.Data, x.Row(row)...)
		if x.Norms != nil {
			out.Norms = append(out.Norms, x.Norms[row])
		} else {
			out.Norms = append(out.Norms, metric.Norm(x.Row(row)))
		}
	}
	return out
}
