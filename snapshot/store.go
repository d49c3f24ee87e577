package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/viant/vecmem/engine"
	"github.com/viant/vecmem/index"
	"github.com/viant/vecmem/metric"
	"github.com/viant/vecmem/vector"
)

// SQLiteStore persists collections of vector documents in SQLite. It is the
// durable side of a memory: the in-process engine exports and restores
// documents through it but never touches storage itself.
type SQLiteStore struct {
	db *sql.DB
}

// Open registers the vector SQL functions, opens dsn and ensures the schema.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if err := engine.RegisterVectorFunctions(); err != nil {
		return nil, err
	}
	db, err := engine.Open(dsn)
	if err != nil {
		return nil, err
	}
	store, err := NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStore wraps an open database and ensures the schema exists.
// Scan additionally requires engine.RegisterVectorFunctions to have been
// called before db opened its connections.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("snapshot: db is nil")
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("snapshot: ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// DB returns the underlying database.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Save replaces the stored collection with docs in a single transaction.
// Document order is preserved.
func (s *SQLiteStore) Save(ctx context.Context, docs []vector.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM memory_items`); err != nil {
		return fmt.Errorf("snapshot: clear: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO memory_items(id, seq, embedding, meta, created_at, last_access, access_count, importance) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, d := range docs {
		if d.ID == "" {
			return errors.New("snapshot: document id must be set")
		}
		emb, err := vector.EncodeEmbedding(d.Embedding)
		if err != nil {
			return err
		}
		meta, err := encodeMetadata(d.Metadata)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, d.ID, i, emb, meta, d.CreatedAt.UnixNano(), d.LastAccess.UnixNano(), d.AccessCount, d.Importance); err != nil {
			return fmt.Errorf("snapshot: insert %s: %w", d.ID, err)
		}
	}
	return tx.Commit()
}

// Load returns every stored document in save order.
func (s *SQLiteStore) Load(ctx context.Context) ([]vector.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, embedding, meta, created_at, last_access, access_count, importance FROM memory_items ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []vector.Document
	for rows.Next() {
		var (
			d                   vector.Document
			emb, meta           []byte
			created, lastAccess int64
		)
		if err := rows.Scan(&d.ID, &emb, &meta, &created, &lastAccess, &d.AccessCount, &d.Importance); err != nil {
			return nil, err
		}
		if d.Embedding, err = vector.DecodeEmbedding(emb); err != nil {
			return nil, fmt.Errorf("snapshot: item %s: %w", d.ID, err)
		}
		if d.Metadata, err = decodeMetadata(meta); err != nil {
			return nil, fmt.Errorf("snapshot: item %s: %w", d.ID, err)
		}
		d.CreatedAt = time.Unix(0, created)
		d.LastAccess = time.Unix(0, lastAccess)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of stored documents.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memory_items`).Scan(&n)
	return n, err
}

// Scan ranks every stored embedding against query inside SQLite using the
// registered vector functions and returns the k best, ties in save order.
// It is an exact reference for checking engine results offline.
func (s *SQLiteStore) Scan(ctx context.Context, m metric.Metric, query []float32, k int) ([]index.Match, error) {
	if k <= 0 {
		return nil, nil
	}
	fn, err := engine.FunctionFor(m)
	if err != nil {
		return nil, err
	}
	order := "DESC"
	if m.IsDistance() {
		order = "ASC"
	}
	q, err := vector.EncodeEmbedding(query)
	if err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf(`SELECT id, %s(embedding, ?) AS score FROM memory_items ORDER BY score %s, seq LIMIT ?`, fn, order)
	rows, err := s.db.QueryContext(ctx, stmt, q, k)
	if err != nil {
		return nil, fmt.Errorf("snapshot: scan: %w", err)
	}
	defer rows.Close()
	var out []index.Match
	for rows.Next() {
		var match index.Match
		if err := rows.Scan(&match.ID, &match.Score); err != nil {
			return nil, err
		}
		out = append(out, match)
	}
	return out, rows.Err()
}
