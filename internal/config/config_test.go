package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "a missing file is not an error")

	assert.Equal(t, "https://yamimanga.me/", cfg.BaseURL)
	assert.Equal(t, 15, cfg.TimeoutSeconds)
	assert.Equal(t, 15*time.Second, cfg.Timeout())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.StoragePath)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: https://staging.example\ntimeout_seconds: 30\nlog_level: debug\nstorage_path: /tmp/onvo-test.db\n",
	), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example/", cfg.BaseURL, "trailing slash is enforced")
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/onvo-test.db", cfg.StoragePath)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://file.example\n"), 0o600))

	t.Setenv("ONVO_BASE_URL", "https://env.example")
	t.Setenv("ONVO_TIMEOUT_SECONDS", "5")
	t.Setenv("ONVO_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example/", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("ONVO_BASE_URL", "ftp://nope.example")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("ONVO_BASE_URL", "https://ok.example")
	t.Setenv("ONVO_LOG_LEVEL", "loud")
	_, err = Load("")
	require.Error(t, err)
}
