package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfmt/pkg/cache"
)

func openTemp(t *testing.T) *cache.Cache {
	t.Helper()

	c, err := cache.Open(filepath.Join(t.TempDir(), "sub", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestFormattedRoundTrip(t *testing.T) {
	t.Parallel()

	c := openTemp(t)
	doc := []byte("# Title\n")

	assert.False(t, c.Formatted(doc, "fp1"))
	require.NoError(t, c.MarkFormatted(doc, "fp1"))
	assert.True(t, c.Formatted(doc, "fp1"))
	assert.False(t, c.Formatted(doc, "fp2"), "another configuration is a miss")
	assert.False(t, c.Formatted([]byte("# Other\n"), "fp1"))

	require.NoError(t, c.Clear())
	assert.False(t, c.Formatted(doc, "fp1"))
}

func TestReopenKeepsEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := cache.Open(path)
	require.NoError(t, err)
	require.NoError(t, c.MarkFormatted([]byte("x\n"), "fp"))
	require.NoError(t, c.Close())

	c, err = cache.Open(path)
	require.NoError(t, err)
	defer c.Close()
	assert.True(t, c.Formatted([]byte("x\n"), "fp"))
}

func TestClosedCache(t *testing.T) {
	t.Parallel()

	c := openTemp(t)
	require.NoError(t, c.Close())
	assert.False(t, c.Formatted([]byte("x"), "fp"))
	require.ErrorIs(t, c.MarkFormatted([]byte("x"), "fp"), cache.ErrClosed)

	var nilCache *cache.Cache
	assert.False(t, nilCache.Formatted([]byte("x"), "fp"))
}

func TestKeyDependsOnBoth(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, cache.Key([]byte("a"), "b"), cache.Key([]byte("b"), "a"))
	assert.Equal(t, cache.Key([]byte("a"), "b"), cache.Key([]byte("a"), "b"))
}
