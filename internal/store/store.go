// Package store owns the tracker's single mutable state and its durable
// cache. Every mutation replaces the affected list with a new slice and
// persists before returning.
package store

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/dori/duotask/internal/cache"
	"github.com/dori/duotask/internal/model"
	"github.com/google/uuid"
)

// DefaultKey is the cache key the state record lives under
const DefaultKey = "duotask-state-v1"

// Store holds the state and persists it through a cache
type Store struct {
	cache  cache.Cache
	key    string
	logger *log.Logger
	now    func() time.Time
	newID  func() string

	state model.State
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source for CreatedAt stamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how new task and tag ids are made
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithKey overrides the cache key
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// New creates a store over c and loads whatever state it holds
func New(c cache.Cache, opts ...Option) *Store {
	s := &Store{
		cache:  c,
		key:    DefaultKey,
		logger: log.New(io.Discard, "", 0),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// State returns a copy of the current state
func (s *Store) State() model.State {
	return s.state.Clone()
}

// Load reads the cached record, replacing the in-memory state. Missing or
// corrupt data yields the default state; Load never fails.
func (s *Store) Load() model.State {
	data, err := s.cache.Get(s.key)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		s.state = model.DefaultState()
	case err != nil:
		s.logger.Printf("store: unable to read saved state: %v", err)
		s.state = model.DefaultState()
	default:
		st, derr := decodeState(data)
		if derr != nil {
			s.logger.Printf("store: unable to parse saved state: %v", derr)
		}
		s.state = st
	}
	return s.State()
}

// Reload discards in-memory state and re-reads the cache
func (s *Store) Reload() model.State {
	return s.Load()
}

// Save writes the current state to the cache
func (s *Store) Save() error {
	data, err := encodeState(s.state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := s.cache.Put(s.key, data); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// persist saves and logs on failure; the in-memory change stands either way
func (s *Store) persist() {
	if err := s.Save(); err != nil {
		s.logger.Printf("store: %v", err)
	}
}

// Reset replaces everything with the default state
func (s *Store) Reset() {
	s.state = model.DefaultState()
	s.persist()
}

// ReplaceTasks overwrites the task list with a remote snapshot. The list is
// kept as-is in memory since the matching tag snapshot may still be on its
// way; tag ids that resolve to nothing are written out as null.
func (s *Store) ReplaceTasks(tasks []model.Task) {
	next := model.CloneTasks(tasks)
	if next == nil {
		next = []model.Task{}
	}
	s.state.Tasks = next
	s.persist()
}

// ReplaceTags overwrites the tag list with a remote snapshot and drops a
// tag filter that no longer points anywhere
func (s *Store) ReplaceTags(tags []model.Tag) {
	next := model.CloneTags(tags)
	if next == nil {
		next = []model.Tag{}
	}
	s.state.Tags = next
	if !s.state.ValidTagFilter(s.state.ActiveTagFilter) {
		s.state.ActiveTagFilter = model.TagFilterAll
	}
	s.persist()
}
