package cache

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Stats reports cache effectiveness.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
	Skipped uint64
}

type entry[T any] struct {
	key    []byte
	k      int
	values []T
}

// Cache memoizes ranked results per (query, threshold). It never evicts:
// once full, new results are simply not stored until Clear. Cache is safe
// for concurrent use.
type Cache[T any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[uint64][]entry[T]
	size       int
	hits       uint64
	misses     uint64
	skipped    uint64
}

// New creates a cache holding at most maxEntries results. A cap <= 0
// disables caching.
func New[T any](maxEntries int) *Cache[T] {
	return &Cache[T]{maxEntries: maxEntries, entries: make(map[uint64][]entry[T])}
}

// Enabled reports whether the cache stores anything.
func (c *Cache[T]) Enabled() bool { return c.maxEntries > 0 }

// Get returns the first k cached values for query and threshold. A result
// cached for a smaller k is a miss.
func (c *Cache[T]) Get(query []float32, threshold float64, k int) ([]T, bool) {
	if !c.Enabled() {
		return nil, false
	}
	key := encodeKey(query, threshold)
	h := xxhash.Sum64(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries[h] {
		if !bytes.Equal(e.key, key) {
			continue
		}
		if e.k < k {
			break
		}
		c.hits++
		n := min(k, len(e.values))
		return append([]T(nil), e.values[:n]...), true
	}
	c.misses++
	return nil, false
}

// Put stores values computed for query, threshold and k. The values are
// copied and capped to k. Put is a no-op once the cache is full.
func (c *Cache[T]) Put(query []float32, threshold float64, k int, values []T) {
	if !c.Enabled() || k <= 0 {
		return
	}
	key := encodeKey(query, threshold)
	h := xxhash.Sum64(key)
	values = append([]T(nil), values[:min(k, len(values))]...)
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket := c.entries[h]
	for i := range bucket {
		if bytes.Equal(bucket[i].key, key) {
			if k > bucket[i].k {
				bucket[i].k = k
				bucket[i].values = values
			}
			return
		}
	}
	if c.size >= c.maxEntries {
		c.skipped++
		return
	}
	c.entries[h] = append(bucket, entry[T]{key: key, k: k, values: values})
	c.size++
}

// Clear drops every cached result.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.size = 0
}

// Len returns the number of cached results.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Entries: c.size, Hits: c.hits, Misses: c.misses, Skipped: c.skipped}
}

// encodeKey serializes the raw query bits followed by the threshold bits.
func encodeKey(query []float32, threshold float64) []byte {
	key := make([]byte, 4*len(query)+8)
	for i, v := range query {
		binary.LittleEndian.PutUint32(key[4*i:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint64(key[4*len(query):], math.Float64bits(threshold))
	return key
}
