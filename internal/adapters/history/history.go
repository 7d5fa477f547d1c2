// Package history records generation runs in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is the database location relative to the output directory.
const DefaultPath = ".domaingen/history.db"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_at DATETIME NOT NULL,
	spec_source TEXT NOT NULL,
	domain TEXT NOT NULL,
	entities INTEGER NOT NULL DEFAULT 0,
	added INTEGER NOT NULL DEFAULT 0,
	removed INTEGER NOT NULL DEFAULT 0,
	modified INTEGER NOT NULL DEFAULT 0,
	files_written INTEGER NOT NULL DEFAULT 0,
	skipped INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_runs_domain ON runs(domain, run_at);
`

// Run is one generation of one domain.
type Run struct {
	ID           int64
	RunAt        time.Time
	SpecSource   string
	Domain       string
	Entities     int
	Added        int
	Removed      int
	Modified     int
	FilesWritten int
	Skipped      bool
}

// Store persists runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	store, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// NewStore wraps db and ensures the schema exists.
func NewStore(db *sql.DB) (*Store, error) {
	// SQLite allows one writer; a single connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts run and sets its ID.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.RunAt.IsZero() {
		run.RunAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_at, spec_source, domain, entities, added, removed, modified, files_written, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunAt.UTC(), run.SpecSource, run.Domain, run.Entities, run.Added, run.Removed, run.Modified, run.FilesWritten, run.Skipped,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read run id: %w", err)
	}
	run.ID = id

	return nil
}

// List returns the most recent runs first, optionally filtered by domain. A limit of
// zero or less returns every run.
func (s *Store) List(ctx context.Context, domain string, limit int) ([]Run, error) {
	query := `SELECT id, run_at, spec_source, domain, entities, added, removed, modified, files_written, skipped FROM runs`
	var args []any

	if domain != "" {
		query += ` WHERE domain = ?`
		args = append(args, domain)
	}

	query += ` ORDER BY run_at DESC, id DESC`

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.RunAt, &r.SpecSource, &r.Domain, &r.Entities, &r.Added, &r.Removed, &r.Modified, &r.FilesWritten, &r.Skipped); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
