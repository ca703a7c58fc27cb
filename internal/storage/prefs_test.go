package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeMode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mode, err := s.ThemeMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeSystem, mode, "unset theme defaults to system")

	require.NoError(t, s.SetThemeMode(ctx, ThemeDark))
	mode, err = s.ThemeMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, mode)
}

func TestDarkMode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dark, err := s.DarkMode(ctx)
	require.NoError(t, err)
	assert.False(t, dark)

	require.NoError(t, s.SetDarkMode(ctx, true))
	dark, err = s.DarkMode(ctx)
	require.NoError(t, err)
	assert.True(t, dark)

	require.NoError(t, s.SetDarkMode(ctx, false))
	dark, err = s.DarkMode(ctx)
	require.NoError(t, err)
	assert.False(t, dark)
}

func TestAvatarAndBackground(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	avatar, err := s.SelectedAvatar(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", avatar)

	require.NoError(t, s.SetSelectedAvatar(ctx, "fox"))
	require.NoError(t, s.SetCustomBackground(ctx, "aurora"))

	avatar, err = s.SelectedAvatar(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fox", avatar)

	bg, err := s.CustomBackground(ctx)
	require.NoError(t, err)
	assert.Equal(t, "aurora", bg)
}

func TestFirstLaunch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.IsFirstLaunch(ctx)
	require.NoError(t, err)
	assert.True(t, first, "a fresh install is a first launch")

	require.NoError(t, s.SetFirstLaunchComplete(ctx))
	first, err = s.IsFirstLaunch(ctx)
	require.NoError(t, err)
	assert.False(t, first)
}
