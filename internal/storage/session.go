package storage

import (
	"context"
	"fmt"
)

// SaveAuthToken persists the bearer token.
func (s *Store) SaveAuthToken(ctx context.Context, token string) error {
	return s.Set(ctx, KeyAuthToken, token)
}

// AuthToken returns the persisted bearer token, or "" when absent.
func (s *Store) AuthToken(ctx context.Context) (string, error) {
	token, _, err := s.Get(ctx, KeyAuthToken)
	return token, err
}

// ClearAuthToken removes the bearer token.
func (s *Store) ClearAuthToken(ctx context.Context) error {
	return s.Delete(ctx, KeyAuthToken)
}

// SaveUserSession persists the (userId, userName) pair in a single
// transaction so a partial failure cannot leave one key without the
// other.
func (s *Store) SaveUserSession(ctx context.Context, userID, userName string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin session write: %w", err)
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsert, KeyUserID, userID); err != nil {
		return fmt.Errorf("failed to write %q: %w", KeyUserID, err)
	}
	if _, err := tx.ExecContext(ctx, upsert, KeyUserName, userName); err != nil {
		return fmt.Errorf("failed to write %q: %w", KeyUserName, err)
	}
	return tx.Commit()
}

// UserSession returns the persisted (userId, userName) pair; absent
// keys come back as "".
func (s *Store) UserSession(ctx context.Context) (userID, userName string, err error) {
	userID, _, err = s.Get(ctx, KeyUserID)
	if err != nil {
		return "", "", err
	}
	userName, _, err = s.Get(ctx, KeyUserName)
	if err != nil {
		return "", "", err
	}
	return userID, userName, nil
}

// ClearUserSession removes both session keys in one transaction.
func (s *Store) ClearUserSession(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin session clear: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM prefs WHERE key IN (?, ?)`, KeyUserID, KeyUserName); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return tx.Commit()
}
