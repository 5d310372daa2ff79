package sqlremote

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher reports debounced changes to the database and its WAL file
type watcher struct {
	fsw      *fsnotify.Watcher
	names    map[string]bool
	debounce time.Duration
	onChange func()
}

func newWatcher(dbPath string, debounce time.Duration, onChange func()) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// Watch the directory; SQLite replaces the WAL file
	dir := filepath.Dir(dbPath)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	base := filepath.Base(dbPath)
	return &watcher{
		fsw:      fsw,
		names:    map[string]bool{base: true, base + "-wal": true},
		debounce: debounce,
		onChange: onChange,
	}, nil
}

func (w *watcher) run(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.names[filepath.Base(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.onChange)

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *watcher) close() error {
	return w.fsw.Close()
}
