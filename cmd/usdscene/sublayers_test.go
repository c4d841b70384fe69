package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usdscene/usdscene/internal/cache"
)

func TestResolveAssetPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/scenes", "props.usda"), resolveAssetPath("/scenes", "props.usda"))
	assert.Equal(t, "/abs/props.usda", resolveAssetPath("/scenes", "/abs/props.usda"))
}

func TestLoadSubLayerCached_DiamondDependencyLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	leaf := filepath.Join(dir, "leaf.usda")
	require.NoError(t, os.WriteFile(leaf, []byte(`def Xform "Leaf" {}`), 0o644))

	lc, err := cache.Open(":memory:")
	require.NoError(t, err)
	defer lc.Close()

	subLayers, err := loadSubLayerCached(lc, leaf)
	require.NoError(t, err)
	assert.Empty(t, subLayers)

	n, err := lc.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A second load of the same resolved path must hit the cache rather
	// than re-read and re-tokenize the file.
	require.NoError(t, os.Remove(leaf))
	subLayers, err = loadSubLayerCached(lc, leaf)
	require.NoError(t, err)
	assert.Empty(t, subLayers)
}

func TestLoadSubLayerCached_ReportsNestedSubLayers(t *testing.T) {
	dir := t.TempDir()
	mid := filepath.Join(dir, "mid.usda")
	require.NoError(t, os.WriteFile(mid, []byte(`
(
    subLayers = ["./leaf.usda"]
)
def Xform "Mid" {}
`), 0o644))

	lc, err := cache.Open(":memory:")
	require.NoError(t, err)
	defer lc.Close()

	subLayers, err := loadSubLayerCached(lc, mid)
	require.NoError(t, err)
	assert.Equal(t, []string{"./leaf.usda"}, subLayers)
}
