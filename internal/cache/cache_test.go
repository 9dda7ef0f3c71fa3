package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotationKey(t *testing.T) {
	k := AnnotationKey("http://localhost:9000", "{}", "Which countries?")
	assert.True(t, strings.HasPrefix(k, keyPrefix))
	assert.Equal(t, k, AnnotationKey("http://localhost:9000", "{}", "Which countries?"))
	assert.NotEqual(t, k, AnnotationKey("http://localhost:9001", "{}", "Which countries?"))
	assert.NotEqual(t, k, AnnotationKey("http://localhost:9000", "{}", "Which countries"))
	// the separator keeps field boundaries apart
	assert.NotEqual(t, AnnotationKey("a", "bc", "d"), AnnotationKey("ab", "c", "d"))
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	require.NoError(t, c.Set("k", []byte("v"), 0))

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Set("short", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, ok = c.Get("short")
	assert.False(t, ok)

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestDiskCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)
	key := AnnotationKey("u", "p", "t")

	_, ok := c.Get(key)
	assert.False(t, ok)

	require.NoError(t, c.Set(key, []byte(`{"sentences":[]}`), 0))
	v, ok := c.Get(key)
	require.True(t, ok)
	assert.JSONEq(t, `{"sentences":[]}`, string(v))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), ":")

	require.NoError(t, c.Set(key, []byte("old"), -time.Second))
	_, ok = c.Get(key)
	assert.False(t, ok, "expired entries are not served")
	_, err = os.Stat(c.path(key))
	assert.True(t, os.IsNotExist(err), "expired entries are removed")

	require.NoError(t, c.Delete(key))
	require.NoError(t, c.Clear())
}

func TestDiskCache_Corrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	require.NoError(t, os.WriteFile(c.path("k"), []byte("not json"), 0o644))

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewDiskCache(dir, time.Hour).Set("k", []byte("v"), 0))

	c := NewLayeredCache(time.Minute, dir, time.Hour)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	_, ok = c.memory.Get("k")
	assert.True(t, ok)

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	assert.IsType(t, Nop{}, New(false, t.TempDir(), time.Minute, time.Hour))
	assert.IsType(t, &MemoryCache{}, New(true, "", time.Minute, time.Hour))
	assert.IsType(t, &LayeredCache{}, New(true, t.TempDir(), time.Minute, time.Hour))

	var n Nop
	require.NoError(t, n.Set("k", []byte("v"), 0))
	_, ok := n.Get("k")
	assert.False(t, ok)
}
