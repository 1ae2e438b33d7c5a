// Package history keeps a log of finished runs in a SQLite database so past
// reports can be listed and rendered again.
package history

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/checkrun/packages/report"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by Get when no run has the requested id.
var ErrNotFound = errors.New("run not found")

// ErrAmbiguous is returned by Get when a run id prefix matches several runs.
var ErrAmbiguous = errors.New("run id prefix is ambiguous")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	started_at  INTEGER NOT NULL,
	duration_ms REAL NOT NULL,
	pass        INTEGER NOT NULL,
	success     INTEGER NOT NULL,
	failure     INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	report      BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);
`

// Entry is the summary row of one recorded run.
type Entry struct {
	RunID      string
	Name       string
	StartedAt  time.Time
	DurationMs float64
	Pass       bool
	report.Counts
}

// Store is a run log backed by SQLite
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the run log at connStr, which is either
// sqlite://path or sqlite:path.
func Open(ctx context.Context, connStr string) (*Store, error) {
	driver, dsn, err := parseConnectionString(connStr)
	if err != nil {
		return nil, err
	}

	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a finished run. Recording the same run twice replaces it.
func (s *Store) Record(ctx context.Context, r *report.Report) error {
	var buf bytes.Buffer
	if err := report.Encode(&buf, r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, name, started_at, duration_ms, pass, success, failure, total, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Name, r.StartedAt.UnixNano(), r.DurationMs, r.Pass,
		r.Success, r.Failure, r.Total, buf.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", r.RunID, err)
	}
	return nil
}

// List returns the most recent runs first. A limit of zero or less returns
// every run.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, name, started_at, duration_ms, pass, success, failure, total
		FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e       Entry
			started int64
		)
		if err := rows.Scan(&e.RunID, &e.Name, &started, &e.DurationMs, &e.Pass,
			&e.Success, &e.Failure, &e.Total); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.StartedAt = time.Unix(0, started).UTC()
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Get returns the full report of one run. id may be a unique prefix of the
// run id.
func (s *Store) Get(ctx context.Context, id string) (*report.Report, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty run id", ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\'
		ORDER BY id = ? DESC LIMIT 2`,
		id, escapeLike(id)+"%", id)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var (
		matches []string
		data    []byte
	)
	for rows.Next() {
		var (
			runID string
			blob  []byte
		)
		if err := rows.Scan(&runID, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if runID == id {
			matches, data = []string{runID}, blob
			break
		}
		matches = append(matches, runID)
		data = blob
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return report.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// parseConnectionString parses a connection string into driver and DSN
// Supported formats:
// - sqlite://path/to/db.sqlite
// - sqlite:./test.db
func parseConnectionString(connStr string) (driver string, dsn string, err error) {
	connStr = strings.TrimSpace(connStr)

	var path string
	switch {
	case strings.HasPrefix(connStr, "sqlite://"):
		path = strings.TrimPrefix(connStr, "sqlite://")
	case strings.HasPrefix(connStr, "sqlite:"):
		path = strings.TrimPrefix(connStr, "sqlite:")
	default:
		return "", "", fmt.Errorf("unsupported history database %q (expected sqlite://path)", connStr)
	}

	if path == "" {
		return "", "", fmt.Errorf("history database path is empty")
	}
	return "sqlite3", path, nil
}
