package hefs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edqe14/hefs/pkg/hefs"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := hefs.NewMemoryCache(10)
	ctx := context.Background()

	entry := &hefs.CacheEntry{
		Data:      []byte(`[{"_id":"g1"}]`),
		ExpiresAt: time.Now().Add(1 * time.Hour),
		ETag:      `"abc123"`,
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)

	retrieved, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.Equal(t, entry.ETag, retrieved.ETag)
	assert.True(t, cache.Has(ctx, "key1"))
}

func TestMemoryCache_GetNonExistent(t *testing.T) {
	t.Parallel()

	cache := hefs.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, hefs.ErrKeyNotFound))
}

func TestMemoryCache_GetExpired(t *testing.T) {
	t.Parallel()

	cache := hefs.NewMemoryCache(10)
	ctx := context.Background()

	err := cache.Set(ctx, "key1", &hefs.CacheEntry{
		Data:      []byte("stale"),
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	})
	require.NoError(t, err)

	assert.False(t, cache.Has(ctx, "key1"))

	_, err = cache.Get(ctx, "key1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, hefs.ErrEntryExpired))
}

func TestMemoryCache_EvictsOldest(t *testing.T) {
	t.Parallel()

	cache := hefs.NewMemoryCache(2)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Set(ctx, key, &hefs.CacheEntry{Data: []byte(key)}))
	}

	assert.False(t, cache.Has(ctx, "a"))
	assert.True(t, cache.Has(ctx, "b"))
	assert.True(t, cache.Has(ctx, "c"))

	require.NoError(t, cache.Set(ctx, "b", &hefs.CacheEntry{Data: []byte("b2")}))
	assert.True(t, cache.Has(ctx, "c"), "overwriting an entry does not evict")
}

func TestMemoryCache_DeleteClearCleanup(t *testing.T) {
	t.Parallel()

	cache := hefs.NewMemoryCache(10)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "live", &hefs.CacheEntry{ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, cache.Set(ctx, "dead", &hefs.CacheEntry{ExpiresAt: time.Now().Add(-time.Second)}))
	require.NoError(t, cache.Set(ctx, "gone", &hefs.CacheEntry{}))

	require.NoError(t, cache.Delete(ctx, "gone"))
	assert.False(t, cache.Has(ctx, "gone"))

	cache.Cleanup()

	_, err := cache.Get(ctx, "dead")
	assert.True(t, errors.Is(err, hefs.ErrKeyNotFound), "cleanup removed the expired entry")
	assert.True(t, cache.Has(ctx, "live"))

	require.NoError(t, cache.Clear(ctx))
	assert.False(t, cache.Has(ctx, "live"))

	cache.StartCleanup(time.Millisecond)
	require.NoError(t, cache.Close())
	require.NoError(t, cache.Close())
}

func TestCacheEntry_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()

	assert.False(t, (&hefs.CacheEntry{}).Expired(now), "zero expiry never expires")
	assert.True(t, (&hefs.CacheEntry{ExpiresAt: now.Add(-time.Second)}).Expired(now))
	assert.False(t, (&hefs.CacheEntry{ExpiresAt: now.Add(time.Second)}).Expired(now))
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GET https://holoen.fans/api/guilds/", hefs.CacheKey("GET", "https://holoen.fans/api/guilds/"))
}
