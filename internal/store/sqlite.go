// Package store persists last-known-good source payloads so the service can
// answer from them after a restart while an upstream source is down.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"gridweather/internal/data"
)

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
    cache_key  TEXT PRIMARY KEY,
    payload    BLOB NOT NULL,
    saved_at   TEXT NOT NULL
)`

// SQLite is a data.SnapshotStore backed by a single SQLite file.
type SQLite struct {
	db   *sql.DB
	path string
}

var _ data.SnapshotStore = (*SQLite)(nil)

// Open creates or opens the snapshot database at path.
func Open(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure snapshot dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *SQLite) Path() string {
	return s.path
}

// Save replaces the snapshot stored under key.
func (s *SQLite) Save(ctx context.Context, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (cache_key, payload, saved_at) VALUES (?, ?, ?)
         ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		key, payload, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the snapshot under key and when it was saved.
func (s *SQLite) Load(ctx context.Context, key string) ([]byte, time.Time, error) {
	var (
		payload []byte
		savedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, saved_at FROM snapshots WHERE cache_key = ?`, key,
	).Scan(&payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, data.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load snapshot: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parse snapshot time: %w", err)
	}
	return payload, at, nil
}

// Delete removes snapshots saved before cutoff and reports how many.
func (s *SQLite) Delete(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE saved_at < ?`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("delete snapshots: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored snapshots.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}
