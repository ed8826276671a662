package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := Open(":memory:")
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()

	_, found, err := c.Lookup(ctx, "pkg/mod.py")
	require.NoError(t, err)
	assert.False(t, found)

	entry := Entry{
		RelativePath: "pkg/mod.py",
		ContentHash:  HashContent([]byte("x = 1")),
		OutputPath:   "api/pkg/mod.md",
	}
	require.NoError(t, c.Store(ctx, entry))

	got, found, err := c.Lookup(ctx, "pkg/mod.py")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entry, got)
}

func TestCacheUpsert(t *testing.T) {
	c, err := Open(":memory:")
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	first := Entry{RelativePath: "mod.py", ContentHash: HashContent([]byte("v1")), OutputPath: "api/mod.md"}
	require.NoError(t, c.Store(ctx, first))

	second := first
	second.ContentHash = HashContent([]byte("v2"))
	require.NoError(t, c.Store(ctx, second))

	got, found, err := c.Lookup(ctx, "mod.py")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second.ContentHash, got.ContentHash)
}

func TestCachePersistsAcrossOpens(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	c, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, c.Store(context.Background(), Entry{
		RelativePath: "a.py", ContentHash: "h", OutputPath: "api/a.md",
	}))
	require.NoError(t, c.Close())

	c2, err := Open(dbPath)
	require.NoError(t, err)
	defer c2.Close()

	_, found, err := c2.Lookup(context.Background(), "a.py")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestHashContentStable(t *testing.T) {
	a := HashContent([]byte("same"))
	b := HashContent([]byte("same"))
	c := HashContent([]byte("different"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
