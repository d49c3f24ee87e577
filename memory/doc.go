// Package memory provides the capacity-bounded vector memory Manager.
//
// A Manager owns an item table, an exact search engine, an approximate
// hierarchical cluster index, an eviction policy and a query cache, and
// keeps them consistent under a single reader-writer lock.
//
// Small collections are searched exactly. Above the configured exact search
// threshold, queries walk the cluster index and the over-generated
// candidates are rescored against their stored embeddings. Items stored or
// removed since the last rebuild are overlaid on the index results, and the
// index is rebuilt synchronously, on the first search, once the number of
// pending changes reaches the rebuild threshold. Callers observe the higher
// latency of that one search.
//
// The Manager starts no goroutines and performs no I/O.
package memory
