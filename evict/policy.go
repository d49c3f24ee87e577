package evict

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/viant/vecmem/vector"
)

// Policy names an eviction rule.
type Policy string

const (
	// LRU evicts the least recently accessed items.
	LRU Policy = "lru"
	// LFU evicts the least frequently accessed items.
	LFU Policy = "lfu"
	// Importance evicts the items with the lowest importance score.
	Importance Policy = "importance"
	// Temporal evicts the oldest items regardless of access history.
	Temporal Policy = "temporal"
)

// ErrUnsupported is returned by Parse for unknown policy names.
var ErrUnsupported = errors.New("evict: unsupported policy")

// Parse resolves a policy name, case-insensitively.
func Parse(name string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(name)))
	if p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, name)
}

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	switch p {
	case LRU, LFU, Importance, Temporal:
		return true
	}
	return false
}

// Select returns min(n, len(items)) victims, most evictable first. Items
// that compare equal under the policy are taken in insertion order. items is
// not modified.
func (p Policy) Select(items []*vector.Item, n int) []*vector.Item {
	if n <= 0 || len(items) == 0 {
		return nil
	}
	if n > len(items) {
		n = len(items)
	}
	before := p.before()
	sorted := append([]*vector.Item(nil), items...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if c := before(a, b); c != 0 {
			return c < 0
		}
		return a.Seq < b.Seq
	})
	return sorted[:n]
}

// before returns a comparator that is negative when a should be evicted
// before b.
func (p Policy) before() func(a, b *vector.Item) int {
	switch p {
	case LRU:
		return func(a, b *vector.Item) int { return a.LastAccess().Compare(b.LastAccess()) }
	case LFU:
		return func(a, b *vector.Item) int { return compare(a.AccessCount(), b.AccessCount()) }
	case Importance:
		return func(a, b *vector.Item) int { return compare(a.Importance, b.Importance) }
	case Temporal:
		return func(a, b *vector.Item) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
	panic(fmt.Sprintf("evict: unsupported policy %q", string(p)))
}

func compare[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
