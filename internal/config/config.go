package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvSGSURL overrides the SGS base URL from the environment.
const EnvSGSURL = "CALCBACEN_SGS_URL"

const appName = "calcbacen"

// Config holds all calcbacen configuration. The margin preference is not
// part of it; that lives in the preference store under the data dir.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	SGS        SGSConfig        `toml:"sgs"`
	Appearance AppearanceConfig `toml:"appearance"`
	Logging    LoggingConfig    `toml:"logging"`
	Server     ServerConfig     `toml:"server"`
	Catalog    CatalogConfig    `toml:"catalog"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
}

// SGSConfig holds Banco Central SGS API settings.
type SGSConfig struct {
	BaseURL    string `toml:"base_url,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	OutputFile string `toml:"output_file,omitempty"`
}

// ServerConfig holds settings for `calcbacen serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CatalogConfig points at an optional YAML file replacing the built-in series list.
type CatalogConfig struct {
	File string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		SGS: SGSConfig{
			TimeoutSec: 15,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8087",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultDataDir returns the XDG-compliant data directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
// Environment overrides apply either way.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user's own config path
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if u := os.Getenv(EnvSGSURL); u != "" {
		cfg.SGS.BaseURL = u
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path with owner-only permissions.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user's own config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// DataDir returns the configured data dir, falling back to the XDG default.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	return DefaultDataDir()
}

// PrefsPath returns the preference database location under the data dir.
func (c Config) PrefsPath() string {
	return filepath.Join(c.DataDir(), "prefs.db")
}

// SGSTimeout returns the per-request timeout for SGS lookups.
func (c Config) SGSTimeout() time.Duration {
	if c.SGS.TimeoutSec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.SGS.TimeoutSec) * time.Second
}
