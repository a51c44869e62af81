// Package store keeps project snapshots in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"montage/project"
)

var ErrNotFound = errors.New("snapshot not found")

// Snapshot describes one saved version of a project document.
type Snapshot struct {
	ID        string
	Name      string
	Size      int
	CreatedAt time.Time
}

// Store wraps a SQLite database connection
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at path. ":memory:" gives a private in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// each connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	migration := `
CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    body BLOB NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(name, created_at);
`
	if _, err := s.db.ExecContext(ctx, migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Save stores doc as a new snapshot under name.
func (s *Store) Save(ctx context.Context, name string, doc *project.Document) (Snapshot, error) {
	body, err := project.Marshal(doc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to encode project: %w", err)
	}

	snap := Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Size:      len(body),
		CreatedAt: s.now().UTC(),
	}
	query := `
		INSERT INTO snapshots (id, name, body, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, snap.ID, snap.Name, body, snap.CreatedAt.UnixNano()); err != nil {
		return Snapshot{}, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return snap, nil
}

// Latest loads the newest snapshot saved under name.
func (s *Store) Latest(ctx context.Context, name string, opts ...project.Option) (*project.Document, error) {
	query := `
		SELECT body FROM snapshots
		WHERE name = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`
	return s.load(ctx, query, name, opts)
}

// Get loads the snapshot with the given ID.
func (s *Store) Get(ctx context.Context, id string, opts ...project.Option) (*project.Document, error) {
	return s.load(ctx, `SELECT body FROM snapshots WHERE id = ?`, id, opts)
}

func (s *Store) load(ctx context.Context, query, arg string, opts []project.Option) (*project.Document, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	doc, err := project.Unmarshal(body, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return doc, nil
}

// List returns every snapshot, newest first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	query := `
		SELECT id, name, length(body), created_at
		FROM snapshots
		ORDER BY created_at DESC, rowid DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var created int64
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Size, &created); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Delete removes the snapshot with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
