// Package cache provides the durable local cache the store persists its
// state record into. Values are opaque bytes addressed by a fixed key.
package cache

import (
	"errors"
)

// Common errors
var (
	ErrNotFound = errors.New("key not found")
	ErrKeyEmpty = errors.New("key cannot be empty")
)

// Cache is a small synchronous key/value store
type Cache interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(key string) ([]byte, error)

	// Put stores value under key, replacing any previous value
	Put(key string, value []byte) error

	// Delete removes key; deleting a missing key is not an error
	Delete(key string) error

	// Close releases any resources held by the cache
	Close() error
}
