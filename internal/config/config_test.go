package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duotask", "config.toml")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.FileExists(t, path)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOverridesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
cache_backend = "badger"
debug = true

[remote]
path = "/srv/shared/duotask.db"
push_timeout_seconds = 3

[ui]
default_tab = "personal"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	assert.Equal(t, BackendBadger, cfg.CacheBackend)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.RemoteConfigured())
	assert.Equal(t, 3*time.Second, cfg.PushTimeout())
	assert.True(t, cfg.Remote.Watch, "unset keys keep their defaults")
	assert.Equal(t, 2600*time.Millisecond, cfg.ToastDuration())
	assert.Equal(t, "personal", cfg.UI.DefaultTab)
	assert.Equal(t, DefaultDataDir(), cfg.DataDir)
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`data_dir = "~/tasks"`), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tasks"), cfg.DataDir)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", `cache_backend = `},
		{"unknown backend", `cache_backend = "redis"`},
		{"zero timeout", "[remote]\npush_timeout_seconds = 0"},
		{"negative toast", "[ui]\ntoast_ms = -1"},
		{"bad tab", "[ui]\ndefault_tab = \"fun\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))

			_, err := LoadOrCreate(path)
			assert.Error(t, err)
		})
	}
}

func TestDefaultPathHonoursEnv(t *testing.T) {
	t.Setenv(EnvConfig, "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", DefaultPath())
}
