package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "16080", cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.CORSOrigins)
	assert.Equal(t, "./data", cfg.Store.DBPath)
	assert.Equal(t, 10, cfg.Queue.MaxConcurrent)
	assert.Equal(t, 5*time.Minute, cfg.Queue.DefaultTimeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "task-queue.toml")
	contents := `
[server]
port = "9090"

[queue]
max_concurrent = 25
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 25, cfg.Queue.MaxConcurrent)
	// Unset fields keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadMissingExplicitFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
}

func TestEnvOverridesTakePrecedenceOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "task-queue.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[server]
port = "9090"
`), 0o644))

	t.Setenv("TASK_QUEUE_PORT", "7070")
	t.Setenv("TASK_QUEUE_MAX_CONCURRENT", "50")
	t.Setenv("TASK_QUEUE_METRICS_ENABLED", "false")
	t.Setenv("TASK_QUEUE_DEFAULT_TIMEOUT", "2m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Queue.MaxConcurrent)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Queue.DefaultTimeout)
}

func TestEnvOverrideIgnoresMalformedValues(t *testing.T) {
	t.Setenv("TASK_QUEUE_MAX_CONCURRENT", "not-a-number")
	t.Setenv("TASK_QUEUE_DEFAULT_TIMEOUT", "not-a-duration")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Queue.MaxConcurrent)
	assert.Equal(t, 5*time.Minute, cfg.Queue.DefaultTimeout)
}

func TestValidateRequiresSecretWhenAuthEnabled(t *testing.T) {
	t.Setenv("TASK_QUEUE_AUTH_ENABLED", "true")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret")
}

func TestValidatePassesWhenAuthEnabledWithSecret(t *testing.T) {
	t.Setenv("TASK_QUEUE_AUTH_ENABLED", "true")
	t.Setenv("TASK_QUEUE_AUTH_SECRET", "s3cret")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
}
