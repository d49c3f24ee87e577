// Package bruteforce provides the exact vector index: kNN queries are
// answered by batch-scoring every stored vector with the configured metric.
// It serves small collections, where a scan is cheaper than maintaining an
// approximate structure.
package bruteforce
