package vector

import (
	"reflect"
	"testing"
	"time"
)

func newTestItem(id string) *Item {
	it := NewItem(map[string]any{"name": id}, time.Unix(100, 0))
	it.ID = id
	return it
}

func TestTable_AppendRemoveKeepsRowsAligned(t *testing.T) {
	tbl := NewTable(2)
	for i, id := range []string{"a", "b", "c", "d"} {
		if err := tbl.Append(newTestItem(id), []float32{float32(i), float32(i * 10)}); err != nil {
			t.Fatalf("Append(%s) failed: %v", id, err)
		}
	}
	if _, ok := tbl.Remove("b"); !ok {
		t.Fatalf("Remove(b) = false, want true")
	}
	if _, ok := tbl.Remove("b"); ok {
		t.Fatalf("second Remove(b) = true, want false")
	}

	if got, want := tbl.IDs(), []string{"a", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	x := tbl.Matrix()
	if x.Rows() != 3 || len(x.Norms) != 3 {
		t.Fatalf("matrix rows = %d norms = %d, want 3 and 3", x.Rows(), len(x.Norms))
	}
	for row, id := range tbl.IDs() {
		if tbl.At(row).ID != id {
			t.Fatalf("At(%d).ID = %s, want %s", row, tbl.At(row).ID, id)
		}
		if tbl.RowOf(id) != row {
			t.Fatalf("RowOf(%s) = %d, want %d", id, tbl.RowOf(id), row)
		}
	}
	emb, ok := tbl.Embedding("c")
	if !ok || emb[0] != 2 || emb[1] != 20 {
		t.Fatalf("Embedding(c) = %v, %v; want [2 20], true", emb, ok)
	}
	if tbl.At(0).Seq >= tbl.At(1).Seq || tbl.At(1).Seq >= tbl.At(2).Seq {
		t.Fatalf("sequence numbers not increasing with row order")
	}
}

func TestTable_RemoveAll(t *testing.T) {
	tbl := NewTable(1)
	ids := []string{"a", "b", "c", "d", "e", "f"}
	for i, id := range ids {
		if err := tbl.Append(newTestItem(id), []float32{float32(i + 1)}); err != nil {
			t.Fatalf("Append(%s) failed: %v", id, err)
		}
	}
	removed := tbl.RemoveAll([]string{"e", "b", "missing", "b", "c"})
	var got []string
	for _, it := range removed {
		got = append(got, it.ID)
	}
	if want := []string{"b", "c", "e"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("removed = %v, want %v", got, want)
	}
	if want := []string{"a", "d", "f"}; !reflect.DeepEqual(tbl.IDs(), want) {
		t.Fatalf("IDs() = %v, want %v", tbl.IDs(), want)
	}
	x := tbl.Matrix()
	if want := []float32{1, 4, 6}; !reflect.DeepEqual(x.Data, want) {
		t.Fatalf("matrix data = %v, want %v", x.Data, want)
	}
	if want := []float32{1, 4, 6}; !reflect.DeepEqual(x.Norms, want) {
		t.Fatalf("norms = %v, want %v", x.Norms, want)
	}
	for row, id := range tbl.IDs() {
		if tbl.RowOf(id) != row || tbl.At(row).ID != id {
			t.Fatalf("row %d out of sync for %s", row, id)
		}
	}
	if tbl.RowOf("b") != -1 {
		t.Fatalf("removed id still indexed")
	}
	if tbl.RemoveAll([]string{"missing"}) != nil {
		t.Fatalf("removing unknown ids should return nil")
	}
}

func TestTable_AppendValidates(t *testing.T) {
	tbl := NewTable(3)
	if err := tbl.Append(newTestItem("a"), []float32{1, 2}); err == nil {
		t.Fatalf("expected dimension error")
	}
	if err := tbl.Append(newTestItem("a"), []float32{1, 2, 3}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := tbl.Append(newTestItem("a"), []float32{1, 2, 3}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}
}

func TestTable_AppendCopiesEmbedding(t *testing.T) {
	tbl := NewTable(2)
	buf := []float32{1, 2}
	if err := tbl.Append(newTestItem("a"), buf); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	buf[0] = 99
	if emb, _ := tbl.Embedding("a"); emb[0] != 1 {
		t.Fatalf("stored embedding changed after caller mutation: %v", emb)
	}
}

func TestTable_DocumentsAreCopies(t *testing.T) {
	tbl := NewTable(2)
	it := newTestItem("a")
	it.Touch(time.Unix(200, 0))
	if err := tbl.Append(it, []float32{1, 2}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	docs := tbl.Documents()
	if len(docs) != 1 {
		t.Fatalf("Documents() returned %d docs, want 1", len(docs))
	}
	doc := docs[0]
	if doc.AccessCount != 1 || !doc.LastAccess.Equal(time.Unix(200, 0)) {
		t.Fatalf("doc counters = %d/%v, want 1/%v", doc.AccessCount, doc.LastAccess, time.Unix(200, 0))
	}
	doc.Embedding[0] = 42
	doc.Metadata["name"] = "changed"
	if emb, _ := tbl.Embedding("a"); emb[0] != 1 {
		t.Fatalf("document embedding aliases table storage")
	}
	if it.Metadata["name"] != "a" {
		t.Fatalf("document metadata aliases item metadata")
	}

	restored := ItemFromDocument(docs[0])
	if restored.ID != "a" || restored.AccessCount() != 1 || restored.Importance != DefaultImportance {
		t.Fatalf("ItemFromDocument lost fields: %+v", restored)
	}

	tbl.Clear()
	if tbl.Len() != 0 || tbl.RowOf("a") != -1 {
		t.Fatalf("Clear did not empty the table")
	}
}
