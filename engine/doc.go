// Package engine provides helpers for the modernc.org/sqlite driver: opening
// connections and registering the vector SQL scalar functions used to scan
// stored embeddings.
package engine
