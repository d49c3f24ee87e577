package index

import (
	"container/heap"
	"sort"

	"github.com/viant/vecmem/metric"
)

// Scored is a candidate awaiting ranking. Row is the candidate's insertion
// position and breaks ties between equal scores (lower rows win).
type Scored struct {
	Row   int
	ID    string
	Score float64
}

// Top returns the k best candidates ordered best first under m. It keeps a
// bounded heap so only k candidates are ever fully ordered.
func Top(m metric.Metric, candidates []Scored, k int) []Match {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	h := &worstFirst{metric: m}
	for _, c := range candidates {
		if h.Len() < k {
			heap.Push(h, c)
			continue
		}
		if h.worse(h.items[0], c) {
			h.items[0] = c
			heap.Fix(h, 0)
		}
	}
	out := h.items
	sort.Slice(out, func(a, b int) bool { return h.worse(out[b], out[a]) })
	matches := make([]Match, len(out))
	for i, c := range out {
		matches[i] = Match{ID: c.ID, Score: c.Score}
	}
	return matches
}

// worstFirst is a heap whose root is the worst retained candidate.
type worstFirst struct {
	metric metric.Metric
	items  []Scored
}

// worse reports whether a ranks strictly behind b.
func (h *worstFirst) worse(a, b Scored) bool {
	ka, kb := h.metric.Key(a.Score), h.metric.Key(b.Score)
	if ka != kb {
		return ka < kb
	}
	return a.Row > b.Row
}

func (h *worstFirst) Len() int           { return len(h.items) }
func (h *worstFirst) Less(i, j int) bool { return h.worse(h.items[i], h.items[j]) }
func (h *worstFirst) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *worstFirst) Push(x any)         { h.items = append(h.items, x.(Scored)) }
func (h *worstFirst) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}
