// Package config loads duotask's TOML settings, writing defaults on first
// run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dori/duotask/internal/model"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	// EnvConfig overrides the config file location
	EnvConfig = "DUOTASK_CONFIG"
)

// Cache backends
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

type Remote struct {
	// Path is the shared SQLite file; empty leaves sync unconfigured
	Path               string `toml:"path"`
	Watch              bool   `toml:"watch"`
	PushTimeoutSeconds int    `toml:"push_timeout_seconds"`
}

type UI struct {
	ToastMS              int    `toml:"toast_ms"`
	DesktopNotifications bool   `toml:"desktop_notifications"`
	DefaultTab           string `toml:"default_tab"`
	Theme                string `toml:"theme"`
}

type Config struct {
	DataDir      string `toml:"data_dir"`
	CacheBackend string `toml:"cache_backend"`
	Debug        bool   `toml:"debug"`
	Remote       Remote `toml:"remote"`
	UI           UI     `toml:"ui"`
}

// DefaultPath returns $XDG_CONFIG_HOME/duotask/config.toml, or the
// DUOTASK_CONFIG override
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".duotask", DefaultConfigFileName)
	}
	return filepath.Join(dir, "duotask", DefaultConfigFileName)
}

// DefaultDataDir returns the default data directory path
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".duotask"
	}
	return filepath.Join(home, ".local", "share", "duotask")
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		DataDir:      DefaultDataDir(),
		CacheBackend: BackendFile,
		Remote: Remote{
			Watch:              true,
			PushTimeoutSeconds: 10,
		},
		UI: UI{
			ToastMS:    2600,
			DefaultTab: string(model.TabWork),
			Theme:      "nord",
		},
	}
}

// LoadOrCreate reads path, or writes and returns the defaults if it does
// not exist yet
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Remote.Path = expandHome(cfg.Remote.Path)
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = BackendFile
	}
	return cfg, cfg.Validate()
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings the app cannot run with
func (c Config) Validate() error {
	switch c.CacheBackend {
	case BackendFile, BackendBadger:
	default:
		return fmt.Errorf("unknown cache_backend %q (want %q or %q)", c.CacheBackend, BackendFile, BackendBadger)
	}
	if c.Remote.PushTimeoutSeconds <= 0 {
		return fmt.Errorf("remote.push_timeout_seconds must be positive, got %d", c.Remote.PushTimeoutSeconds)
	}
	if c.UI.ToastMS <= 0 {
		return fmt.Errorf("ui.toast_ms must be positive, got %d", c.UI.ToastMS)
	}
	if c.UI.DefaultTab != "" && !model.Tab(c.UI.DefaultTab).Valid() {
		return fmt.Errorf("ui.default_tab must be %q or %q, got %q", model.TabWork, model.TabPersonal, c.UI.DefaultTab)
	}
	return nil
}

func (c Config) PushTimeout() time.Duration {
	return time.Duration(c.Remote.PushTimeoutSeconds) * time.Second
}

func (c Config) ToastDuration() time.Duration {
	return time.Duration(c.UI.ToastMS) * time.Millisecond
}

// RemoteConfigured reports whether a remote path is set
func (c Config) RemoteConfigured() bool {
	return strings.TrimSpace(c.Remote.Path) != ""
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
