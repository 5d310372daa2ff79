package cache

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()

	_, err := c.Get("state")
	assert.True(t, errors.Is(err, ErrNotFound), "missing key should be ErrNotFound, got %v", err)

	require.NoError(t, c.Put("state", []byte(`{"a":1}`)))
	got, err := c.Get("state")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, c.Put("state", []byte(`{"a":2}`)))
	got, err = c.Get("state")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	require.NoError(t, c.Delete("state"))
	require.NoError(t, c.Delete("state"), "deleting twice is not an error")
	_, err = c.Get("state")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.ErrorIs(t, c.Put("", []byte("x")), ErrKeyEmpty)
}

func TestMemoryCache(t *testing.T) {
	c := NewMemory()
	defer c.Close()
	exerciseCache(t, c)
}

func TestMemoryCacheReturnsCopies(t *testing.T) {
	c := NewMemory()
	value := []byte("abc")
	require.NoError(t, c.Put("k", value))
	value[0] = 'z'

	got, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileCache(t *testing.T) {
	c, err := OpenFile(t.TempDir())
	require.NoError(t, err)
	defer c.Close()
	exerciseCache(t, c)
}

func TestFileCacheKeysAreSanitized(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenFile(dir)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put("../escape/attempt", []byte("x")))
	got, err := c.Get("../escape/attempt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
	assert.FileExists(t, c.path("../escape/attempt"))
	assert.Equal(t, dir, filepath.Dir(c.path("../escape/attempt")))
}

func TestBadgerCache(t *testing.T) {
	c, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	defer c.Close()
	exerciseCache(t, c)
}
