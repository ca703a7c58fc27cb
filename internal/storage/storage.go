// Package storage persists client state in a local SQLite key-value
// table. Every key is read and written atomically; the two-key user
// session is the only multi-key write and goes through one transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Persisted keys.
const (
	KeyAuthToken        = "auth_token"
	KeyUserID           = "user_id"
	KeyUserName         = "user_name"
	KeyThemeMode        = "theme_mode"
	KeyDarkMode         = "is_dark_mode"
	KeySelectedAvatar   = "selected_avatar"
	KeyCustomBackground = "custom_background"
	KeyFirstLaunch      = "is_first_launch"
)

// Theme modes stored under KeyThemeMode.
const (
	ThemeSystem = "SYSTEM"
	ThemeLight  = "LIGHT"
	ThemeDark   = "DARK"
)

const schema = `
CREATE TABLE IF NOT EXISTS prefs (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`

// Store is a key-value store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the store at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	// A single connection keeps per-key writes serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize storage schema: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing database handle. The caller owns the
// handle's lifecycle; the prefs table is created if missing.
func NewWithDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize storage schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value for key. The second result reports whether the
// key exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prefs (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM prefs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Clear removes every key.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM prefs`); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}
