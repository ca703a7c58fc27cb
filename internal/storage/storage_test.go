package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	s, err := NewWithDB(db)
	require.NoError(t, err)
	return s
}

func TestGetSetDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", "v1"))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	require.NoError(t, s.Set(ctx, "k", "v2"))
	v, _, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v, "set overwrites")

	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "k"), "deleting an absent key is not an error")
}

func TestAuthToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	token, err := s.AuthToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", token, "absent token reads as empty")

	require.NoError(t, s.SaveAuthToken(ctx, "tok-1"))
	token, err = s.AuthToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, s.ClearAuthToken(ctx))
	token, err = s.AuthToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", token)
}

func TestUserSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveUserSession(ctx, "42", "mika"))
	id, name, err := s.UserSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", id)
	assert.Equal(t, "mika", name)

	require.NoError(t, s.SaveUserSession(ctx, "43", "niko"))
	id, name, err = s.UserSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "43", id)
	assert.Equal(t, "niko", name)

	require.NoError(t, s.ClearUserSession(ctx))
	id, name, err = s.UserSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", id)
	assert.Equal(t, "", name)
}

func TestClearUserSessionKeepsToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAuthToken(ctx, "tok"))
	require.NoError(t, s.SaveUserSession(ctx, "1", "a"))
	require.NoError(t, s.ClearUserSession(ctx))

	token, err := s.AuthToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAuthToken(ctx, "tok"))
	require.NoError(t, s.SaveUserSession(ctx, "1", "a"))
	require.NoError(t, s.Clear(ctx))

	token, err := s.AuthToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", token)
	id, _, err := s.UserSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestOpenCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "onvo.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", "v"))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
