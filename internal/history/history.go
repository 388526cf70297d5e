// Package history records past launches in a local SQLite database, so
// `gantry history` can show which assistant ran on which branch and when.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Launch is one recorded assistant invocation.
type Launch struct {
	ID         string
	Project    string // project root path
	Assistant  string
	Branch     string
	BaseBranch string
	Image      string
	StartedAt  time.Time
	Duration   time.Duration
	ExitedOK   bool
}

// Store persists launches. It is safe for the single-process, sequential use
// gantry makes of it; SQLite's busy timeout covers the odd concurrent CLI.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS launches (
	id          TEXT PRIMARY KEY,
	project     TEXT NOT NULL,
	assistant   TEXT NOT NULL,
	branch      TEXT NOT NULL,
	base_branch TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT '',
	started_at  TEXT NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	exited_ok   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_launches_project ON launches(project, started_at DESC);
`

// Open opens the history database at path, creating file and schema when
// missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one launch. An empty ID is filled in.
func (s *Store) Record(ctx context.Context, l Launch) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO launches (id, project, assistant, branch, base_branch, image, started_at, duration_ms, exited_ok)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Project, l.Assistant, l.Branch, l.BaseBranch, l.Image,
		l.StartedAt.UTC().Format(time.RFC3339Nano),
		l.Duration.Milliseconds(),
		boolToInt(l.ExitedOK),
	)
	if err != nil {
		return fmt.Errorf("record launch: %w", err)
	}
	return nil
}

// Recent returns the newest launches across all projects, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Launch, error) {
	return s.query(ctx, `
		SELECT id, project, assistant, branch, base_branch, image, started_at, duration_ms, exited_ok
		FROM launches ORDER BY started_at DESC LIMIT ?`, limit)
}

// ByProject returns the newest launches for one project, newest first.
func (s *Store) ByProject(ctx context.Context, project string, limit int) ([]Launch, error) {
	return s.query(ctx, `
		SELECT id, project, assistant, branch, base_branch, image, started_at, duration_ms, exited_ok
		FROM launches WHERE project = ? ORDER BY started_at DESC LIMIT ?`, project, limit)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Launch, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query launches: %w", err)
	}
	defer rows.Close()

	var launches []Launch
	for rows.Next() {
		var (
			l          Launch
			startedAt  string
			durationMS int64
			exitedOK   int64
		)
		if err := rows.Scan(&l.ID, &l.Project, &l.Assistant, &l.Branch, &l.BaseBranch, &l.Image,
			&startedAt, &durationMS, &exitedOK); err != nil {
			return nil, fmt.Errorf("scan launch: %w", err)
		}

		l.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse launch timestamp %q: %w", startedAt, err)
		}
		l.Duration = time.Duration(durationMS) * time.Millisecond
		l.ExitedOK = exitedOK != 0

		launches = append(launches, l)
	}
	return launches, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
