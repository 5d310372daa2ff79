// Package sqlremote is a remote.Store backed by a SQLite file. Pointing
// several devices at the same (synced or shared) file gives them one
// account-scoped task list.
package sqlremote

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dori/duotask/internal/remote"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNoUser is returned by data operations called without a user id
var ErrNoUser = errors.New("user id is required")

// DefaultDebounce is how long the file watcher waits for writes to settle
const DefaultDebounce = 150 * time.Millisecond

// DB is a SQLite-backed remote store
type DB struct {
	db     *sql.DB
	path   string
	logger *log.Logger
	now    func() time.Time

	watch    bool
	debounce time.Duration
	watcher  *watcher

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	current   *remote.User
	nextID    int
	listeners map[int]func(*remote.User)
	subs      map[int]*subscription
}

var _ remote.Store = (*DB)(nil)

// Option configures a DB
type Option func(*DB)

// WithLogger sets the logger for background errors
func WithLogger(l *log.Logger) Option {
	return func(d *DB) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithWatch enables the file watcher so writes from other processes
// reach subscribers
func WithWatch(enabled bool) Option {
	return func(d *DB) { d.watch = enabled }
}

// WithDebounce sets the file watcher debounce interval
func WithDebounce(interval time.Duration) Option {
	return func(d *DB) {
		if interval > 0 {
			d.debounce = interval
		}
	}
}

// WithClock overrides time.Now for updated_at stamps
func WithClock(now func() time.Time) Option {
	return func(d *DB) { d.now = now }
}

// Open opens the database at path and runs migrations
func Open(path string, opts ...Option) (*DB, error) {
	if path == "" {
		return nil, remote.ErrNotConfigured
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create remote directory: %w", err)
	}

	// WAL lets other processes read while one writes
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", path)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote database: %w", err)
	}

	sqlDB.SetMaxOpenConns(1) // SQLite only supports one writer
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to remote database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &DB{
		db:        sqlDB,
		path:      path,
		logger:    log.New(io.Discard, "", 0),
		now:       time.Now,
		debounce:  DefaultDebounce,
		ctx:       ctx,
		cancel:    cancel,
		listeners: make(map[int]func(*remote.User)),
		subs:      make(map[int]*subscription),
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.migrate(); err != nil {
		cancel()
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if d.watch {
		w, err := newWatcher(path, d.debounce, d.markAllDirty)
		if err != nil {
			// Same-process sync still works without it
			d.logger.Printf("sqlremote: file watcher disabled: %v", err)
		} else {
			d.watcher = w
			d.wg.Add(1)
			go func() {
				defer d.wg.Done()
				w.run(ctx)
			}()
		}
	}

	return d, nil
}

// migrate runs database migrations using embedded SQL files
func (d *DB) migrate() error {
	// Silence goose logging (it corrupts TUI output)
	goose.SetLogger(log.New(io.Discard, "", 0))
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(d.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Path returns the database file path
func (d *DB) Path() string {
	return d.path
}

// IsReady implements remote.Store. An open DB is always ready.
func (d *DB) IsReady() bool {
	return d != nil && d.db != nil
}

// Close stops the watcher and all subscriptions, then closes the database
func (d *DB) Close() error {
	d.cancel()
	if d.watcher != nil {
		d.watcher.close()
	}
	d.wg.Wait()

	d.mu.Lock()
	d.subs = make(map[int]*subscription)
	d.listeners = make(map[int]func(*remote.User))
	d.mu.Unlock()

	return d.db.Close()
}

// Transaction executes a function within a transaction
func (d *DB) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
