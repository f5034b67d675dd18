// Package cache stores generated summaries in SQLite so unchanged days are
// not sent to the API again.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrMiss is returned by Get when no entry exists for the key.
var ErrMiss = errors.New("cache miss")

const schema = `CREATE TABLE IF NOT EXISTS summaries (
	key        TEXT PRIMARY KEY,
	model      TEXT NOT NULL,
	text       TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// Entry is one cached summary.
type Entry struct {
	Key       string
	Model     string
	Text      string
	CreatedAt time.Time
}

// Store is a SQLite-backed summary cache.
type Store struct {
	db *sql.DB
}

// DefaultPath returns $XDG_DATA_HOME/worklog/cache.db or
// ~/.local/share/worklog/cache.db.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "worklog", "cache.db"), nil
}

// Open opens the cache database at path, creating it if needed.
// If path is ":memory:", uses an in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key derives the cache key for a prompt sent to model for task.
func Key(model, task, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + task + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}

// Get returns the entry stored under key, or ErrMiss.
func (s *Store) Get(ctx context.Context, key string) (*Entry, error) {
	var e Entry
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT key, model, text, created_at FROM summaries WHERE key = ?`, key,
	).Scan(&e.Key, &e.Model, &e.Text, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &e, nil
}

// Put stores e, replacing any entry with the same key.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summaries (key, model, text, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET model = excluded.model, text = excluded.text, created_at = excluded.created_at`,
		e.Key, e.Model, e.Text, e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge deletes entries created before cutoff and returns how many went.
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM summaries WHERE created_at < ?`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}
