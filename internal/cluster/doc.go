// Package cluster implements an immutable hierarchical k-means tree used for
// approximate nearest neighbor search. Nodes summarize their subtree with a
// centroid; leaves hold matrix rows. The tree is rebuilt from scratch
// whenever membership changes.
package cluster
