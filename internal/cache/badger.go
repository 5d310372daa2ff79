package cache

import (
	"errors"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Badger implements Cache on top of BadgerDB
type Badger struct {
	db *badger.DB
}

// OpenBadger opens a BadgerDB-backed cache in dir
func OpenBadger(dir string) (*Badger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger logs to stderr, which would tear the TUI

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

// Get implements Cache
func (b *Badger) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}

	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		// Copy value to prevent access after transaction
		return item.Value(func(v []byte) error {
			val = append([]byte{}, v...)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Put implements Cache
func (b *Badger) Put(key string, value []byte) error {
	if key == "" {
		return ErrKeyEmpty
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Delete implements Cache
func (b *Badger) Delete(key string) error {
	if key == "" {
		return ErrKeyEmpty
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close implements Cache
func (b *Badger) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
