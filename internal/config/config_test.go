package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("YT_API", "")
	t.Setenv("YT_API_BASE_URL", "")
	t.Setenv("YT_API_TIMEOUT", "")
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "YT_API=file-key\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.YouTubeAPIKey)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
}

func TestLoad_FileOverridesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("YT_API", "env-key")
	path := writeEnvFile(t, "YT_API=file-key\nYT_API_BASE_URL=http://127.0.0.1:9999/\nYT_API_TIMEOUT=3s\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.YouTubeAPIKey)
	assert.Equal(t, "http://127.0.0.1:9999/", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestLoad_MissingFileFallsBackToEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("YT_API", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.YouTubeAPIKey)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "OTHER=value\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "YT_API=k\nYT_API_TIMEOUT=soon\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YT_API_TIMEOUT")
}
