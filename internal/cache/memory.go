package cache

import "sync"

// Memory is an in-process cache, mainly for tests
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// PutErr, when set, is returned by Put without storing anything
	PutErr error
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get implements Cache
func (m *Memory) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte{}, v...), nil
}

// Put implements Cache
func (m *Memory) Put(key string, value []byte) error {
	if key == "" {
		return ErrKeyEmpty
	}
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte{}, value...)
	return nil
}

// Delete implements Cache
func (m *Memory) Delete(key string) error {
	if key == "" {
		return ErrKeyEmpty
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Close implements Cache
func (m *Memory) Close() error {
	return nil
}
