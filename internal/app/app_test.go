package app

import (
	"path/filepath"
	"testing"

	"github.com/dori/duotask/internal/config"
	"github.com/dori/duotask/internal/model"
	"github.com/dori/duotask/internal/remote"
	"github.com/dori/duotask/internal/syncer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	return cfg
}

func TestNewLocalOnly(t *testing.T) {
	cfg := testConfig(t)
	cfg.Remote.Path = filepath.Join(t.TempDir(), "remote.db")

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, remote.Unconfigured{}, a.Remote, "remote stays off unless requested")
	assert.Equal(t, syncer.Guest, a.Sync.Phase())

	_, err = a.Store.AddTask("Persist me", model.TabWork, "")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := New(cfg)
	require.NoError(t, err)
	defer b.Close()
	require.Len(t, b.Store.State().Tasks, 1)
	assert.Equal(t, "Persist me", b.Store.State().Tasks[0].Title)
}

func TestSingleInstance(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	_, err = New(cfg)
	assert.ErrorContains(t, err, "already running")
}

func TestBadgerBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheBackend = config.BackendBadger

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Store.AddTag("Focus", "")
	require.NoError(t, err)
	assert.Len(t, a.Store.State().Tags, 1)
}

func TestRemoteWired(t *testing.T) {
	cfg := testConfig(t)
	cfg.Remote.Path = filepath.Join(t.TempDir(), "remote.db")
	cfg.Remote.Watch = false

	a, err := New(cfg, WithRemote(true))
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Remote.IsReady())
	assert.True(t, a.Sync.RemoteReady())
}

func TestDefaultTabOnFirstRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.UI.DefaultTab = string(model.TabPersonal)

	a, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, model.TabPersonal, a.Store.State().ActiveTab)
	a.Store.SetActiveTab(model.TabWork)
	require.NoError(t, a.Close())

	// A saved choice wins over the configured default
	b, err := New(cfg)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, model.TabWork, b.Store.State().ActiveTab)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheBackend = "redis"

	_, err := New(cfg)
	assert.Error(t, err)
}
