package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Catalog.Expiry.Std())
	assert.NotEmpty(t, cfg.Sources.DivingFish.BaseURL)
	assert.NotEmpty(t, cfg.Sources.Lxns.BaseURL)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
sources:
  lxns:
    secret: from-file
    timeout: 15s
catalog:
  expiry: 1h
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.Sources.Lxns.Secret)
	assert.Equal(t, 15*time.Second, cfg.Sources.Lxns.Timeout.Std())
	assert.Equal(t, time.Hour, cfg.Catalog.Expiry.Std())

	// Untouched sections keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, Default().Sources.DivingFish.BaseURL, cfg.Sources.DivingFish.BaseURL)
}

func TestLoadSecretEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources:\n  lxns:\n    secret: from-file\n"), 0o644))

	t.Setenv("LXNS_API_SECRET", "from-env")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Sources.Lxns.Secret)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonesuch.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  expiry: soon\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
