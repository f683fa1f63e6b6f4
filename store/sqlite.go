// ABOUTME: SQLite store with one row per metadata file
// ABOUTME: Opens the database in WAL mode with a single connection
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS files (
	id TEXT PRIMARY KEY,
	path TEXT NOT NULL UNIQUE,
	dir TEXT NOT NULL,
	name TEXT NOT NULL,
	content BLOB NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_dir ON files(dir);

CREATE TABLE IF NOT EXISTS directories (
	path TEXT PRIMARY KEY
);
`

// SQLStore keeps each file as a row of the files table.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLStore opens (creating if needed) a SQLite database file.
func OpenSQLStore(path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Configure connection pool for SQLite (avoid database locked errors)
	db.SetMaxOpenConns(1)

	s, err := NewSQLStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an open database and creates the schema.
func NewSQLStore(db *sql.DB) (*SQLStore, error) {
	if _, err := db.Exec(sqlSchema); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

// Read returns the stored content.
func (s *SQLStore) Read(ctx context.Context, p string) ([]byte, error) {
	var content []byte
	err := s.db.QueryRowContext(ctx, `SELECT content FROM files WHERE path = ?`, clean(p)).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

// Write inserts or replaces the row for p.
func (s *SQLStore) Write(ctx context.Context, p string, data []byte) error {
	dir, name := split(p)
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO directories (path) VALUES (?)`, dir); err != nil {
		return err
	}

	query := `
		INSERT INTO files (id, path, dir, name, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, query, uuid.New().String(), clean(p), dir, name, data, now, now); err != nil {
		return err
	}

	return tx.Commit()
}

// Exists reports whether a file or directory row is present.
func (s *SQLStore) Exists(ctx context.Context, p string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM files WHERE path = ?) + (SELECT COUNT(*) FROM directories WHERE path = ?)
	`, clean(p), clean(p)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns the files in dir ordered by name.
func (s *SQLStore) List(ctx context.Context, dir string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM files WHERE dir = ? ORDER BY name`, clean(dir))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(names) == 0 {
		exists, err := s.Exists(ctx, dir)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotExist
		}
	}
	return names, nil
}

// EnsureDir records the directory.
func (s *SQLStore) EnsureDir(ctx context.Context, dir string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO directories (path) VALUES (?)`, clean(dir))
	return err
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
