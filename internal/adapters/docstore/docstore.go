// Package docstore implements the persistence collaborator: a
// document-oriented store with named collections, generated ids, and
// the equality / since filters the dialog flows need.
//
// SQLite backs it with a single documents table holding JSON payloads.
// WAL mode keeps readers from blocking the writer. Use ":memory:" for
// tests.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Collection names used by the repository.
const (
	CollectionProfiles     = "profiles"
	CollectionStock        = "stock_items"
	CollectionTransactions = "transactions"
	CollectionGoals        = "goals"
	CollectionReminders    = "reminders"
)

// Document is one stored record. Every document carries its generated
// id under the "id" key.
type Document map[string]any

// FilterOp selects the comparison a Filter applies.
type FilterOp string

const (
	OpEqual FilterOp = "eq"
	// OpSince matches RFC3339 timestamp fields >= the filter value.
	OpSince FilterOp = "gte"
)

// Filter narrows a Query.
type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// Since builds a timestamp lower-bound filter.
func Since(field string, t time.Time) Filter {
	return Filter{Field: field, Op: OpSince, Value: t}
}

// Store is the SQLite-backed document store.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the store at path and migrates the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id         TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		data       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);

	CREATE TABLE IF NOT EXISTS idempotency_keys (
		key        TEXT PRIMARY KEY,
		doc_id     TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a document and returns its generated id. When idemKey
// is non-empty and has been seen before, nothing is written and
// ok=false is returned together with the id of the original document.
func (s *Store) Create(ctx context.Context, collection string, doc Document, idemKey string) (id string, ok bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id = uuid.NewString()

	if idemKey != "" {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO idempotency_keys (key, doc_id) VALUES (?, ?)`,
			idemKey, id)
		if err != nil {
			return "", false, fmt.Errorf("failed to record idempotency key: %w", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			// Replay of an already-applied write.
			var origID string
			if err := tx.QueryRowContext(ctx,
				`SELECT doc_id FROM idempotency_keys WHERE key = ?`, idemKey).Scan(&origID); err != nil {
				return "", false, fmt.Errorf("failed to resolve duplicate write: %w", err)
			}
			return origID, false, nil
		}
	}

	doc["id"] = id
	data, err := json.Marshal(doc)
	if err != nil {
		return "", false, fmt.Errorf("failed to marshal document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, collection, data) VALUES (?, ?, ?)`,
		id, collection, string(data)); err != nil {
		return "", false, fmt.Errorf("failed to insert document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("failed to commit: %w", err)
	}
	return id, true, nil
}

// Get loads one document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return doc, nil
}

// Update merges fields into an existing document.
func (s *Store) Update(ctx context.Context, collection, id string, fields Document) error {
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET data = ? WHERE collection = ? AND id = ?`,
		string(data), collection, id)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a document. Deleting an unknown id is not an error.
// Any idempotency key that produced the document is released with it,
// so a compensated write stays retryable.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM idempotency_keys WHERE doc_id = ?`, id); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return tx.Commit()
}

// Query returns the documents of a collection matching every filter,
// ordered by insertion time. Filtering happens over the decoded JSON;
// per-owner collections stay small enough that this is the simple and
// sufficient choice.
func (s *Store) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE collection = ? ORDER BY created_at, id`,
		collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		var doc Document
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		if matches(doc, filters) {
			docs = append(docs, doc)
		}
	}
	return docs, rows.Err()
}

func matches(doc Document, filters []Filter) bool {
	for _, f := range filters {
		val, ok := doc[f.Field]
		if !ok {
			return false
		}
		switch f.Op {
		case OpEqual:
			if fmt.Sprintf("%v", val) != fmt.Sprintf("%v", f.Value) {
				return false
			}
		case OpSince:
			fieldTime, err := time.Parse(time.RFC3339, fmt.Sprintf("%v", val))
			if err != nil {
				return false
			}
			bound, ok := f.Value.(time.Time)
			if !ok {
				return false
			}
			if fieldTime.Before(bound) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
