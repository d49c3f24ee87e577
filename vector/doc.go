// Package vector defines the stored entity model and the storage table used
// by the memory engine. It includes:
//   - Item, the stored entry, and Document, its caller-facing copy
//   - Table, the item table kept in lockstep with a flat embedding matrix
//   - Embedding encoding (BLOB) shared by the snapshot store and SQL functions
package vector
