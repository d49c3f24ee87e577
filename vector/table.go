package vector

import (
	"fmt"

	"github.com/viant/vecmem/metric"
)

// Table is the authoritative item table. It keeps items, their ids, a flat
// row-major embedding matrix and per-row norms in lockstep: row i of the
// matrix always belongs to items[i]. Rows stay in insertion order.
//
// Table is not safe for concurrent mutation; the owner serializes writes.
type Table struct {
	dim   int
	items []*Item
	ids   []string
	rows  map[string]int
	data  []float32
	norms []float32
	seq   uint64
}

// NewTable creates an empty table for embeddings of length dim.
func NewTable(dim int) *Table {
	return &Table{dim: dim, rows: make(map[string]int)}
}

// Dim returns the embedding dimension.
func (t *Table) Dim() int { return t.dim }

// Len returns the number of stored items.
func (t *Table) Len() int { return len(t.items) }

// Append adds it with a copy of embedding as the last row and assigns its
// insertion sequence.
func (t *Table) Append(it *Item, embedding []float32) error {
	if len(embedding) != t.dim {
		return fmt.Errorf("vector: embedding length %d, want %d", len(embedding), t.dim)
	}
	if _, ok := t.rows[it.ID]; ok {
		return fmt.Errorf("vector: duplicate id %q", it.ID)
	}
	t.seq++
	it.Seq = t.seq
	t.rows[it.ID] = len(t.items)
	t.items = append(t.items, it)
	t.ids = append(t.ids, it.ID)
	t.data = append(t.data, embedding...)
	t.norms = append(t.norms, metric.Norm(embedding))
	return nil
}

// Remove deletes the item with id, compacting the matrix so the remaining
// rows keep their relative order.
func (t *Table) Remove(id string) (*Item, bool) {
	removed := t.RemoveAll([]string{id})
	if len(removed) == 0 {
		return nil, false
	}
	return removed[0], true
}

// RemoveAll deletes every listed id in a single compaction pass and returns
// the removed items in row order. Unknown and repeated ids are ignored.
func (t *Table) RemoveAll(ids []string) []*Item {
	drop := make(map[int]struct{}, len(ids))
	first := len(t.items)
	for _, id := range ids {
		row, ok := t.rows[id]
		if !ok {
			continue
		}
		drop[row] = struct{}{}
		first = min(first, row)
	}
	if len(drop) == 0 {
		return nil
	}
	removed := make([]*Item, 0, len(drop))
	d := t.dim
	w := first
	for r := first; r < len(t.items); r++ {
		if _, ok := drop[r]; ok {
			removed = append(removed, t.items[r])
			delete(t.rows, t.ids[r])
			continue
		}
		if w != r {
			copy(t.data[w*d:(w+1)*d], t.data[r*d:(r+1)*d])
			t.norms[w] = t.norms[r]
			t.items[w] = t.items[r]
			t.ids[w] = t.ids[r]
		}
		t.rows[t.ids[w]] = w
		w++
	}
	clear(t.items[w:])
	t.items = t.items[:w]
	t.ids = t.ids[:w]
	t.data = t.data[:w*d]
	t.norms = t.norms[:w]
	return removed
}

// Get returns the item with id.
func (t *Table) Get(id string) (*Item, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return t.items[row], true
}

// RowOf returns the matrix row of id, or -1 when absent.
func (t *Table) RowOf(id string) int {
	if row, ok := t.rows[id]; ok {
		return row
	}
	return -1
}

// At returns the item stored at row.
func (t *Table) At(row int) *Item { return t.items[row] }

// Row returns the embedding stored at row. The slice aliases table storage
// and must not be modified or retained across mutations.
func (t *Table) Row(row int) []float32 {
	return t.data[row*t.dim : (row+1)*t.dim : (row+1)*t.dim]
}

// Embedding returns the embedding of id without copying.
func (t *Table) Embedding(id string) ([]float32, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return t.Row(row), true
}

// IDs returns the ids in row order. The slice is owned by the table.
func (t *Table) IDs() []string { return t.ids }

// Items returns the items in row order. The slice is owned by the table.
func (t *Table) Items() []*Item { return t.items }

// Matrix returns a view of the embedding matrix valid until the next
// mutation.
func (t *Table) Matrix() metric.Matrix {
	return metric.Matrix{Dim: t.dim, Data: t.data, Norms: t.norms}
}

// Documents returns copies of all items in row order.
func (t *Table) Documents() []Document {
	out := make([]Document, len(t.items))
	for i, it := range t.items {
		out[i] = it.Document(t.Row(i))
	}
	return out
}

// Clear removes every item. The insertion sequence keeps counting so items
// stored after a clear never collide with older sequence numbers.
func (t *Table) Clear() {
	t.items = nil
	t.ids = nil
	t.data = nil
	t.norms = nil
	t.rows = make(map[string]int)
}
