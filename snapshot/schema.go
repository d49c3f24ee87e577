package snapshot

import (
	"context"
	"database/sql"
)

const itemsSchema = `
CREATE TABLE IF NOT EXISTS memory_items (
    id TEXT PRIMARY KEY,
    seq INTEGER NOT NULL,
    embedding BLOB NOT NULL,
    meta BLOB,
    created_at INTEGER NOT NULL,
    last_access INTEGER NOT NULL,
    access_count INTEGER NOT NULL,
    importance REAL NOT NULL
)`

const seqIndex = `CREATE INDEX IF NOT EXISTS memory_items_seq ON memory_items(seq)`

// EnsureSchema creates the memory_items table and its sequence index when
// they do not exist. Timestamps are stored as unix nanoseconds.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{itemsSchema, seqIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
