package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *LayerCache {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "layer_cache.db")
	c, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLayerCache_LookupMiss(t *testing.T) {
	c := openTestCache(t)

	_, ok, err := c.Lookup("/scenes/shared/material.usda")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLayerCache_RecordAndLookup(t *testing.T) {
	c := openTestCache(t)

	loadedAt := time.Unix(1700000000, 0)
	require.NoError(t, c.Record("/scenes/shared/material.usda", 3, loadedAt))

	entry, ok, err := c.Lookup("/scenes/shared/material.usda")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, entry.RootCount)
	assert.Equal(t, loadedAt.Unix(), entry.LoadedAt.Unix())
}

func TestLayerCache_RecordOverwrites(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.Record("/a.usda", 1, time.Unix(100, 0)))
	require.NoError(t, c.Record("/a.usda", 5, time.Unix(200, 0)))

	entry, ok, err := c.Lookup("/a.usda")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, entry.RootCount)
	assert.Equal(t, int64(200), entry.LoadedAt.Unix())

	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLayerCache_Forget(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.Record("/a.usda", 1, time.Now()))
	require.NoError(t, c.Forget("/a.usda"))

	_, ok, err := c.Lookup("/a.usda")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLayerCache_DiamondDedup(t *testing.T) {
	c := openTestCache(t)

	// Simulate A referencing B and C, both of which reference D: D's
	// load should be recorded once and found on both subsequent lookups.
	require.NoError(t, c.Record("/d.usda", 2, time.Now()))

	_, okFromB, err := c.Lookup("/d.usda")
	require.NoError(t, err)
	_, okFromC, err := c.Lookup("/d.usda")
	require.NoError(t, err)

	assert.True(t, okFromB)
	assert.True(t, okFromC)

	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
