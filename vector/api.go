package vector

import (
	"maps"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultImportance is the neutral importance assigned to new items.
const DefaultImportance = 0.5

// Item is a stored memory entry. Its embedding lives in the owning Table's
// matrix; the remaining fields are owned by the item itself.
//
// AccessCount and LastAccess are updated atomically so that concurrent
// readers can record hits without exclusive access to the table.
type Item struct {
	ID         string
	Metadata   map[string]any
	CreatedAt  time.Time
	Importance float64

	// Seq is the insertion sequence within a table; it breaks ties wherever
	// insertion order matters.
	Seq uint64

	accessCount atomic.Int64
	lastAccess  atomic.Int64 // unix nanoseconds
}

// NewItem creates an item with a fresh identifier. The metadata map is cloned
// so later caller mutations do not leak into the store.
func NewItem(metadata map[string]any, now time.Time) *Item {
	it := &Item{
		ID:         uuid.New().String(),
		Metadata:   maps.Clone(metadata),
		CreatedAt:  now,
		Importance: DefaultImportance,
	}
	it.lastAccess.Store(now.UnixNano())
	return it
}

// AccessCount returns the number of recorded reads.
func (it *Item) AccessCount() int64 { return it.accessCount.Load() }

// LastAccess returns the time of the most recent read, or the creation time
// when the item has never been read.
func (it *Item) LastAccess() time.Time { return time.Unix(0, it.lastAccess.Load()) }

// Touch records a single read at now.
func (it *Item) Touch(now time.Time) {
	it.accessCount.Add(1)
	it.lastAccess.Store(now.UnixNano())
}

// Document is a caller-facing copy of an item, including its embedding.
// Nothing in a Document aliases engine state.
type Document struct {
	ID          string
	Embedding   []float32
	Metadata    map[string]any
	CreatedAt   time.Time
	LastAccess  time.Time
	AccessCount int64
	Importance  float64
}

// Document snapshots it together with the given embedding row.
func (it *Item) Document(embedding []float32) Document {
	return Document{
		ID:          it.ID,
		Embedding:   append([]float32(nil), embedding...),
		Metadata:    maps.Clone(it.Metadata),
		CreatedAt:   it.CreatedAt,
		LastAccess:  it.LastAccess(),
		AccessCount: it.AccessCount(),
		Importance:  it.Importance,
	}
}

// ItemFromDocument rebuilds an item from a previously exported document,
// preserving its identifier, timestamps and counters.
func ItemFromDocument(doc Document) *Item {
	it := &Item{
		ID:         doc.ID,
		Metadata:   maps.Clone(doc.Metadata),
		CreatedAt:  doc.CreatedAt,
		Importance: doc.Importance,
	}
	it.accessCount.Store(doc.AccessCount)
	last := doc.LastAccess
	if last.IsZero() {
		last = doc.CreatedAt
	}
	it.lastAccess.Store(last.UnixNano())
	return it
}
