// Package snapshot persists memory documents to SQLite so a Manager can be
// saved and restored across processes. Embeddings are stored as float32
// BLOBs and metadata as msgpack; the registered vector SQL functions allow
// exact scans over a saved collection.
package snapshot
