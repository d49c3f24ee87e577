// Package evict selects which stored items to discard when a memory reaches
// capacity. Every policy is a total order over items with insertion order as
// the final tie-break, so selection is deterministic.
package evict
