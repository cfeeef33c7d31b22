// ABOUTME: Persistent key/value store backing the client's local storage
// ABOUTME: SQLite (modernc, pure Go) accessed through sqlx, one file per data dir

package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the data directory
const FileName = "local.db"

// ErrNotFound is returned when a key has no value
var ErrNotFound = errors.New("key not found")

const schema = `
CREATE TABLE IF NOT EXISTS local_storage (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// Store is a small durable map from string keys to JSON values
type Store struct {
	db *sqlx.DB
}

type item struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Open creates dir if needed and opens (or creates) the store in it.
func Open(ctx context.Context, dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("data directory is not configured")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return OpenDSN(ctx, filepath.Join(dir, FileName))
}

// OpenDSN opens a store at the given SQLite DSN (":memory:" works for tests).
func OpenDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}

	// A single connection avoids "database is locked" and keeps :memory: shared
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close local storage: %w", err)
	}
	return nil
}

// SetItem stores raw string value under key
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES (:key, :value, :updated_at)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, item{Key: key, Value: value, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

// GetItem returns the raw value for key, or ErrNotFound
func (s *Store) GetItem(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM local_storage WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, nil
}

// RemoveItem deletes key; removing a missing key is not an error
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM local_storage WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

// SetJSON marshals v and stores it under key
func (s *Store) SetJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return s.SetItem(ctx, key, string(data))
}

// GetJSON loads key into v. Returns ErrNotFound when absent.
func (s *Store) GetJSON(ctx context.Context, key string, v any) error {
	raw, err := s.GetItem(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return nil
}
