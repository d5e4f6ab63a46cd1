// Package sqlstore provides a recipebook.Storage on a SQL database.
// The schema targets SQLite (modernc.org/sqlite); one row per (namespace, id, format).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, registered as "sqlite"

	"github.com/skosovsky/recipebook"
	"github.com/skosovsky/recipebook/internal/codec"
)

const schema = `
CREATE TABLE IF NOT EXISTS objects (
	namespace  TEXT NOT NULL,
	id         TEXT NOT NULL,
	format     TEXT NOT NULL,
	payload    BLOB NOT NULL,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (namespace, id, format)
)`

const (
	upsertSQL = `INSERT INTO objects (namespace, id, format, payload, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (namespace, id, format) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	selectSQL = `SELECT payload FROM objects WHERE namespace = ? AND id = ? AND format = ?`
	deleteSQL = `DELETE FROM objects WHERE namespace = ? AND id = ? AND format = ?`
	listSQL   = `SELECT id FROM objects WHERE namespace = ? AND format = ? ORDER BY id`
	existsSQL = `SELECT COUNT(1) FROM objects WHERE namespace = ? AND id = ? AND format = ?`
)

var _ recipebook.Storage = (*Store)(nil)

// Store implements recipebook.Storage on a *sql.DB.
type Store struct {
	db    *sql.DB
	owned bool
	now   func() time.Time
}

// New wraps db and creates the objects table if needed. The caller keeps ownership of db.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("sqlstore: create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Open opens (or creates) the SQLite database at path. ":memory:" is accepted.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %q: %w", path, err)
	}
	// SQLite serializes writers; a single connection also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	s, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// Close closes the database if the Store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// CreateObject upserts the encoded record.
func (s *Store) CreateObject(ctx context.Context, namespace, id string, payload map[string]any, format recipebook.Format) error {
	if err := checkArgs(ctx, namespace, id); err != nil {
		return err
	}
	data, err := codec.Marshal(format, payload)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsertSQL, namespace, id, string(format), data, s.now().UTC()); err != nil {
		return fmt.Errorf("sqlstore: upsert %s/%s: %w", namespace, id, err)
	}
	return nil
}

// ReadObject decodes the stored record.
func (s *Store) ReadObject(ctx context.Context, namespace, id string, format recipebook.Format) (map[string]any, error) {
	if err := checkArgs(ctx, namespace, id); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, selectSQL, namespace, id, string(format)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", recipebook.ErrObjectNotFound, namespace, id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: select %s/%s: %w", namespace, id, err)
	}
	return codec.Unmarshal(format, data)
}

// DeleteObject removes the record. No affected row is reported as recipebook.ErrObjectNotFound.
func (s *Store) DeleteObject(ctx context.Context, namespace, id string, format recipebook.Format) error {
	if err := checkArgs(ctx, namespace, id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, deleteSQL, namespace, id, string(format))
	if err != nil {
		return fmt.Errorf("sqlstore: delete %s/%s: %w", namespace, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: delete %s/%s: %w", namespace, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", recipebook.ErrObjectNotFound, namespace, id)
	}
	return nil
}

// GetObjects returns the record keys ("id.ext") of a namespace ordered by id.
func (s *Store) GetObjects(ctx context.Context, namespace string, format recipebook.Format) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := recipebook.ValidateID(namespace); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, listSQL, namespace, string(format))
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list %s: %w", namespace, err)
	}
	defer rows.Close()
	keys := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlstore: list %s: %w", namespace, err)
		}
		keys = append(keys, recipebook.ObjectKey(id, format))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: list %s: %w", namespace, err)
	}
	return keys, nil
}

// ObjectExists reports whether a row exists for the record.
func (s *Store) ObjectExists(ctx context.Context, namespace, id string, format recipebook.Format) (bool, error) {
	if err := checkArgs(ctx, namespace, id); err != nil {
		return false, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, existsSQL, namespace, id, string(format)).Scan(&n); err != nil {
		return false, fmt.Errorf("sqlstore: exists %s/%s: %w", namespace, id, err)
	}
	return n > 0, nil
}

func checkArgs(ctx context.Context, namespace, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := recipebook.ValidateID(namespace); err != nil {
		return err
	}
	return recipebook.ValidateID(id)
}
