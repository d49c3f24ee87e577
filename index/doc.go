// Package index defines a minimal abstraction for vector indexes that are
// built in bulk from embeddings and queried for kNN. Implementations in this
// module include an exact brute-force engine and an approximate hierarchical
// cluster index.
package index
