// Package app wires duotask's pieces together from a config.
package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dori/duotask/internal/cache"
	"github.com/dori/duotask/internal/config"
	"github.com/dori/duotask/internal/model"
	"github.com/dori/duotask/internal/notify"
	"github.com/dori/duotask/internal/remote"
	"github.com/dori/duotask/internal/remote/sqlremote"
	"github.com/dori/duotask/internal/store"
	"github.com/dori/duotask/internal/syncer"
	"github.com/gofrs/flock"
)

// App holds the application state and dependencies
type App struct {
	Config   config.Config
	Logger   *log.Logger
	Cache    cache.Cache
	Store    *store.Store
	Remote   remote.Store
	Sync     *syncer.Coordinator
	Notifier *notify.Notifier
	DataDir  string

	sqlDB    *sqlremote.DB
	logFile  io.Closer
	lockFile *flock.Flock
}

// Option configures New
type Option func(*options)

type options struct {
	remote bool
}

// WithRemote connects the configured remote store. Offline CLI commands
// leave it off.
func WithRemote(enabled bool) Option {
	return func(o *options) { o.remote = enabled }
}

// New creates a new application instance
func New(cfg config.Config, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger, logFile, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		DataDir:  cfg.DataDir,
		Notifier: notify.NewNotifier(cfg.UI.DesktopNotifications),
		logFile:  logFile,
	}

	// Acquire lock to ensure single instance
	if err := app.acquireLock(); err != nil {
		logFile.Close()
		return nil, err
	}

	app.Cache, err = openCache(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Store = store.New(app.Cache, store.WithLogger(logger))
	if cfg.UI.DefaultTab != "" && app.Store.State().ActiveTab != model.Tab(cfg.UI.DefaultTab) && isFirstRun(app.Cache) {
		app.Store.SetActiveTab(model.Tab(cfg.UI.DefaultTab))
	}

	app.Remote = remote.Unconfigured{}
	if o.remote && cfg.RemoteConfigured() {
		db, err := sqlremote.Open(cfg.Remote.Path,
			sqlremote.WithLogger(logger),
			sqlremote.WithWatch(cfg.Remote.Watch),
		)
		if err != nil {
			// Sync is optional; run as guest
			logger.Printf("app: remote unavailable: %v", err)
		} else {
			app.sqlDB = db
			app.Remote = db
		}
	}

	app.Sync = syncer.New(app.Store, app.Remote,
		syncer.WithLogger(logger),
		syncer.WithPushTimeout(cfg.PushTimeout()),
	)

	logger.Printf("app: started (cache=%s remote=%t)", cfg.CacheBackend, app.Remote.IsReady())
	return app, nil
}

// isFirstRun reports whether the cache holds no saved state yet
func isFirstRun(c cache.Cache) bool {
	_, err := c.Get(store.DefaultKey)
	return errors.Is(err, cache.ErrNotFound)
}

func openCache(cfg config.Config) (cache.Cache, error) {
	switch cfg.CacheBackend {
	case config.BackendBadger:
		c, err := cache.OpenBadger(filepath.Join(cfg.DataDir, "badger"))
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		return c, nil
	default:
		c, err := cache.OpenFile(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		return c, nil
	}
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "duotask.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of duotask is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Sync != nil {
		a.Sync.Close()
	}

	if a.sqlDB != nil {
		if err := a.sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close remote: %w", err))
		}
	}

	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
		}
	}

	a.releaseLock()

	if a.logFile != nil {
		a.logFile.Close()
	}

	return errors.Join(errs...)
}
