package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv(EnvSGSURL, "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 15*time.Second, cfg.SGSTimeout())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv(EnvSGSURL, "")
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.General.DataDir = "/tmp/calc"
	cfg.SGS.TimeoutSec = 3
	cfg.Appearance.Theme = "tokyo-night"
	cfg.Logging.Level = "debug"
	cfg.Catalog.File = "/etc/series.yaml"
	require.NoError(t, SaveTo(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, "/tmp/calc", got.DataDir())
	assert.Equal(t, filepath.Join("/tmp/calc", "prefs.db"), got.PrefsPath())
	assert.Equal(t, 3*time.Second, got.SGSTimeout())
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(EnvSGSURL, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[appearance]\ntheme = \"terminal\"\n"), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "terminal", cfg.Appearance.Theme)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:8087", cfg.Server.Addr)
}

func TestLoadFrom_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sgs\n"), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadFrom_EnvOverridesBaseURL(t *testing.T) {
	t.Setenv(EnvSGSURL, "http://localhost:9999")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", cfg.SGS.BaseURL)
}

func TestDataDir_FollowsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")

	assert.Equal(t, filepath.Join("/xdg/data", "calcbacen"), DefaultConfig().DataDir())
	assert.Equal(t, filepath.Join("/xdg/config", "calcbacen", "config.toml"), ConfigPath())
}
