package metric

import (
	"errors"
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestScore(t *testing.T) {
	testCases := []struct {
		name   string
		metric Metric
		a, b   []float32
		want   float64
	}{
		{"cosine orthogonal", Cosine, []float32{1, 0}, []float32{0, 1}, 0},
		{"cosine identical", Cosine, []float32{1, 0}, []float32{1, 0}, 1},
		{"cosine opposite", Cosine, []float32{1, 0}, []float32{-2, 0}, -1},
		{"cosine scaled", Cosine, []float32{3, 4}, []float32{8, 6}, 0.96},
		{"cosine zero norm", Cosine, []float32{0, 0}, []float32{1, 0}, 0},
		{"euclidean", Euclidean, []float32{0, 0}, []float32{3, 4}, 5},
		{"dot", DotProduct, []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"manhattan", Manhattan, []float32{0, 0}, []float32{3, -4}, 7},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.metric.Score(tc.a, tc.b); !near(got, tc.want) {
				t.Fatalf("Score(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestBatchMatchesScore(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},
		{0, 2, 0},
		{1, 1, 1},
		{0, 0, 0},
		{-1, 0.5, 3},
	}
	query := []float32{0.5, 1, -0.25}
	x := NewMatrix(3, vectors)
	for _, m := range []Metric{Cosine, Euclidean, DotProduct, Manhattan} {
		got := m.Batch(x, query, nil)
		if len(got) != len(vectors) {
			t.Fatalf("%s: Batch returned %d scores, want %d", m, len(got), len(vectors))
		}
		for i, v := range vectors {
			if want := m.Score(query, v); !near(got[i], want) {
				t.Errorf("%s: Batch[%d] = %v, want %v", m, i, got[i], want)
			}
		}
	}
}

func TestBatchWithoutNorms(t *testing.T) {
	x := NewMatrix(2, [][]float32{{1, 0}, {0, 1}})
	x.Norms = nil
	got := Cosine.Batch(x, []float32{1, 0}, make([]float64, 0, 8))
	if !near(got[0], 1) || !near(got[1], 0) {
		t.Fatalf("Batch = %v, want [1 0]", got)
	}
}

func TestBatchUsesCachedNorms(t *testing.T) {
	x := NewMatrix(2, [][]float32{{1, 0}, {3, 4}})
	x.Norms = []float32{2, 5}
	got := Cosine.Batch(x, []float32{1, 0}, nil)
	if !near(got[0], 0.5) || !near(got[1], 0.6) {
		t.Fatalf("Batch = %v, want [0.5 0.6]", got)
	}
}

func TestKeyOrdering(t *testing.T) {
	if !Cosine.Better(0.9, 0.1) {
		t.Fatalf("cosine: 0.9 should rank ahead of 0.1")
	}
	if !Euclidean.Better(0.1, 0.9) {
		t.Fatalf("euclidean: distance 0.1 should rank ahead of 0.9")
	}
	if got := Manhattan.Key(2); got != -2 {
		t.Fatalf("Manhattan.Key(2) = %v, want -2", got)
	}
	if got := DotProduct.Key(2); got != 2 {
		t.Fatalf("DotProduct.Key(2) = %v, want 2", got)
	}
}

func TestPasses(t *testing.T) {
	if Cosine.Passes(0.5, 0.99) {
		t.Fatalf("cosine 0.5 should not pass threshold 0.99")
	}
	if !Cosine.Passes(0, 0) {
		t.Fatalf("cosine 0 should pass threshold 0")
	}
	if !Euclidean.Passes(100, 0) {
		t.Fatalf("euclidean threshold 0 should disable filtering")
	}
	if Euclidean.Passes(3, 2) {
		t.Fatalf("euclidean distance 3 should not pass threshold 2")
	}
}

func TestParse(t *testing.T) {
	for name, want := range map[string]Metric{
		"cosine": Cosine, "COS": Cosine, "l2": Euclidean, "dot": DotProduct,
		"dot_product": DotProduct, "manhattan": Manhattan, "l1": Manhattan,
	} {
		got, err := Parse(name)
		if err != nil || got != want {
			t.Errorf("Parse(%q) = %v, %v; want %v, nil", name, got, err, want)
		}
	}
	if _, err := Parse("hamming"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Parse(hamming) error = %v, want ErrUnsupported", err)
	}
}

func TestUnsupportedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unsupported metric")
		}
	}()
	Metric("hamming").Score([]float32{1}, []float32{1})
}
