package cluster

import (
	"fmt"
	"testing"

	"github.com/viant/vecmem/metric"
)

func grid(n, dim int) ([]string, metric.Matrix) {
	ids := make([]string, n)
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("id-%03d", i)
		v := make([]float32, dim)
		v[i%dim] = float32(1 + i/dim)
		v[(i+1)%dim] = 0.5
		vectors[i] = v
	}
	return ids, metric.NewMatrix(dim, vectors)
}

func TestIndex_SearchOvergenerates(t *testing.T) {
	ids, x := grid(300, 6)
	idx := New(metric.Cosine, Config{LeafSize: 8, Branching: 4})
	if err := idx.Build(ids, x); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if idx.Len() != 300 {
		t.Fatalf("Len = %d, want 300", idx.Len())
	}
	got, err := idx.Search(x.Row(10), 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) < 5 {
		t.Fatalf("Search returned %d candidates, want at least 5", len(got))
	}
	seen := map[string]bool{}
	for _, m := range got {
		if seen[m.ID] {
			t.Fatalf("duplicate candidate %s", m.ID)
		}
		seen[m.ID] = true
	}
	stats := idx.Stats()
	if stats.Nodes == 0 || stats.Leaves == 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestIndex_Errors(t *testing.T) {
	idx := New(metric.Euclidean, Config{})
	if got, err := idx.Search([]float32{1, 2}, 3); err != nil || got != nil {
		t.Fatalf("unbuilt Search = %v, %v; want nil, nil", got, err)
	}
	ids, x := grid(10, 2)
	if err := idx.Build(ids[:3], x); err == nil {
		t.Fatalf("expected length mismatch error")
	}
	if err := idx.Build(ids, x); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := idx.Search([]float32{1, 2, 3}, 3); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
	idx.Reset()
	if idx.Len() != 0 || idx.Stats().Nodes != 0 {
		t.Fatalf("Reset should drop the tree")
	}
}
