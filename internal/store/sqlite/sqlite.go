// Package sqlite implements the record store on a local SQLite database.
// Records are stored as JSON documents in a single table keyed by
// (user_id, kind, record_id), which is all the partition model needs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"endurowallet/internal/core"
	"endurowallet/internal/store"
)

// Repository is the SQLite-backed document store.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and runs migrations.
func Open(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// List implements store.Store.
func (r *Repository) List(ctx context.Context, userID string, kind core.Kind) ([]store.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT record_id, body FROM documents WHERE user_id = ? AND kind = ?`,
		userID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("%w: query documents: %v", store.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var docs []store.Document
	for rows.Next() {
		var doc store.Document
		var body string
		if err := rows.Scan(&doc.ID, &body); err != nil {
			return nil, fmt.Errorf("%w: scan document: %v", store.ErrStoreUnavailable, err)
		}
		doc.Body = json.RawMessage(body)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate documents: %v", store.ErrStoreUnavailable, err)
	}
	return docs, nil
}

// Append implements store.Store. The insert is a single statement, so the
// record is either fully created or absent.
func (r *Repository) Append(ctx context.Context, userID string, kind core.Kind, body json.RawMessage) (store.Document, error) {
	id := uuid.NewString()
	mirrored, err := store.MirrorID(body, kind, id)
	if err != nil {
		return store.Document{}, fmt.Errorf("%w: %v", store.ErrWriteRejected, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (user_id, kind, record_id, body) VALUES (?, ?, ?, ?)`,
		userID, string(kind), id, string(mirrored))
	if err != nil {
		return store.Document{}, fmt.Errorf("%w: insert document: %v", store.ErrWriteRejected, err)
	}

	slog.InfoContext(ctx, "Record saved to SQLite",
		"user_id", userID,
		"kind", kind,
		"record_id", id)

	return store.Document{ID: id, Body: mirrored}, nil
}

// Get returns a single document by id, for the mirror worker.
func (r *Repository) Get(ctx context.Context, userID string, kind core.Kind, recordID string) (store.Document, error) {
	var body string
	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE user_id = ? AND kind = ? AND record_id = ?`,
		userID, string(kind), recordID).Scan(&body)
	if err == sql.ErrNoRows {
		return store.Document{}, fmt.Errorf("record %s/%s/%s not found", userID, kind, recordID)
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("%w: query document: %v", store.ErrStoreUnavailable, err)
	}
	return store.Document{ID: recordID, Body: json.RawMessage(body)}, nil
}

// ListAll walks every document of one kind across users, for the mirror
// worker's fallback scan.
func (r *Repository) ListAll(ctx context.Context, kind core.Kind) (map[string][]store.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, record_id, body FROM documents WHERE kind = ?`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("%w: query documents: %v", store.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	out := make(map[string][]store.Document)
	for rows.Next() {
		var userID, body string
		var doc store.Document
		if err := rows.Scan(&userID, &doc.ID, &body); err != nil {
			return nil, fmt.Errorf("%w: scan document: %v", store.ErrStoreUnavailable, err)
		}
		doc.Body = json.RawMessage(body)
		out[userID] = append(out[userID], doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate documents: %v", store.ErrStoreUnavailable, err)
	}
	return out, nil
}
