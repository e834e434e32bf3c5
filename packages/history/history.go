// Package history records executed calls in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/abdul-hamid-achik/pet/packages/http"
)

const schema = `
CREATE TABLE IF NOT EXISTS calls (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMP NOT NULL,
	method      TEXT NOT NULL,
	url         TEXT NOT NULL,
	status      INTEGER NOT NULL,
	remote      INTEGER NOT NULL,
	message     TEXT NOT NULL,
	body_kind   TEXT NOT NULL,
	duration_us INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS calls_started_at ON calls (started_at);
`

// Entry is one recorded call
type Entry struct {
	ID        string
	StartedAt time.Time
	Method    string
	URL       string
	Status    int
	Remote    bool
	Message   string
	BodyKind  string
	Duration  time.Duration
}

// EntryFor builds an entry from the outcome of a call
func EntryFor(method, url string, startedAt time.Time, resp *http.Response, err error) Entry {
	e := Entry{
		StartedAt: startedAt,
		Method:    method,
		URL:       url,
		BodyKind:  http.KindEmpty.String(),
	}
	if resp != nil {
		e.Status = resp.Status
		e.Remote = resp.Remote
		e.Message = resp.Message
		e.Duration = resp.Duration
		if resp.Body != nil {
			e.BodyKind = resp.Body.Kind().String()
		}
		return e
	}
	if failure, ok := http.AsError(err); ok {
		e.Status = failure.Status
		e.Remote = failure.Remote
		e.Message = failure.Message
		e.Duration = failure.Duration
		if failure.Response != nil {
			e.BodyKind = failure.Response.Kind().String()
		}
	} else if err != nil {
		e.Message = err.Error()
	}
	return e
}

// Store is a handle on the history database
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the history database
func Open(ctx context.Context, connectionString string) (*Store, error) {
	dsn, err := parseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores e, assigning an ID when it has none, and returns the ID
func (s *Store) Record(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calls (id, started_at, method, url, status, remote, message, body_kind, duration_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.StartedAt.UTC(), e.Method, e.URL, e.Status, e.Remote, e.Message, e.BodyKind, e.Duration.Microseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record call: %w", err)
	}
	return e.ID, nil
}

// List returns the most recent entries, newest first
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, method, url, status, remote, message, body_kind, duration_us
		 FROM calls ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationUs int64
		if err := rows.Scan(&e.ID, &e.StartedAt, &e.Method, &e.URL, &e.Status, &e.Remote, &e.Message, &e.BodyKind, &durationUs); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.Duration = time.Duration(durationUs) * time.Microsecond
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// parseConnectionString turns a history location into a sqlite DSN.
// Supported formats:
// - sqlite://path/to/history.db
// - sqlite:./history.db
// - a bare file path
func parseConnectionString(connStr string) (string, error) {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return "", fmt.Errorf("empty history location")
	}

	if strings.HasPrefix(connStr, "sqlite://") {
		return strings.TrimPrefix(connStr, "sqlite://"), nil
	}
	if strings.HasPrefix(connStr, "sqlite:") {
		return strings.TrimPrefix(connStr, "sqlite:"), nil
	}
	if i := strings.Index(connStr, "://"); i > 0 {
		return "", fmt.Errorf("unsupported history scheme: %s", connStr[:i])
	}
	return connStr, nil
}
