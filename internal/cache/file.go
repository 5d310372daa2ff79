package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gofrs/flock"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// File stores each key as its own file under a directory.
// Writes go to a temp file and are renamed into place while holding
// an exclusive flock, so a concurrent CLI invocation never sees a
// half-written record.
type File struct {
	dir  string
	lock *flock.Flock
}

// OpenFile opens (creating if needed) a file-backed cache in dir
func OpenFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &File{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".cache.lock")),
	}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

// Get implements Cache
func (f *File) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}
	if err := f.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock cache: %w", err)
	}
	defer f.lock.Unlock()

	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Put implements Cache
func (f *File) Put(key string, value []byte) error {
	if key == "" {
		return ErrKeyEmpty
	}
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock cache: %w", err)
	}
	defer f.lock.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".put-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

// Delete implements Cache
func (f *File) Delete(key string) error {
	if key == "" {
		return ErrKeyEmpty
	}
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock cache: %w", err)
	}
	defer f.lock.Unlock()

	err := os.Remove(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Close implements Cache
func (f *File) Close() error {
	return f.lock.Close()
}
