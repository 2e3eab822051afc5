package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codescope/internal/cache"
)

func TestLRU_PutGet(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](4)

	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")

	_, ok = c.Get("b")
	assert.True(t, ok)

	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRU_GetRefreshesRecency(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	// Touch "a" so "b" becomes the eviction victim.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", 3)

	_, ok = c.Get("a")
	assert.True(t, ok)

	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestLRU_PutRefreshesExistingKey(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 10)
	c.Put("c", 3)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)

	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_Remove(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](4)

	c.Put("a", 1)
	c.Remove("a")
	c.Remove("missing")

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Clear(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](4)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Clear()

	assert.Equal(t, 0, c.Len())

	// The cache stays usable after a clear.
	c.Put("c", 3)

	v, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestLRU_Stats(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](4)

	c.Put("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_NonPositiveCapacityUsesDefault(t *testing.T) {
	t.Parallel()

	c := cache.New[int, int](0)

	for i := range cache.DefaultCapacity {
		c.Put(i, i)
	}

	assert.Equal(t, cache.DefaultCapacity, c.Len())

	c.Put(cache.DefaultCapacity, 1)
	assert.Equal(t, cache.DefaultCapacity, c.Len())
}
