// Package cluster provides the approximate vector index. It wraps a
// hierarchical k-means tree: queries walk the tree best first by centroid
// score and return an over-generated candidate set that the caller rescores.
// There is no incremental insert or delete; membership changes require a
// full Build.
package cluster
