package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Value string `json:"value"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10)

	hit, err := c.GetJSON(ctx, "missing", &payload{})
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.SetJSON(ctx, "k", payload{Value: "v"}, time.Minute))

	var got payload
	hit, err = c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", got.Value)
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c := NewMemoryCache(10)
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetJSON(ctx, "k", payload{Value: "v"}, time.Hour))

	now = now.Add(59 * time.Minute)
	hit, err := c.GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.True(t, hit, "still fresh")

	now = now.Add(2 * time.Minute)
	hit, err = c.GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, hit, "expired")

	// Expired entries are removed, not resurrected.
	hit, _ = c.GetJSON(ctx, "k", &payload{})
	assert.False(t, hit)
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c := NewMemoryCache(10)
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetJSON(ctx, "k", payload{Value: "v"}, 0))
	now = now.AddDate(1, 0, 0)

	hit, err := c.GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)

	require.NoError(t, c.SetJSON(ctx, "a", payload{Value: "1"}, 0))
	require.NoError(t, c.SetJSON(ctx, "b", payload{Value: "2"}, 0))

	// Touch "a" so "b" becomes the eviction candidate.
	hit, err := c.GetJSON(ctx, "a", &payload{})
	require.NoError(t, err)
	require.True(t, hit)

	require.NoError(t, c.SetJSON(ctx, "c", payload{Value: "3"}, 0))

	hit, _ = c.GetJSON(ctx, "b", &payload{})
	assert.False(t, hit, "least recently used entry evicted")

	hit, _ = c.GetJSON(ctx, "a", &payload{})
	assert.True(t, hit)
	hit, _ = c.GetJSON(ctx, "c", &payload{})
	assert.True(t, hit)
}

func TestMemoryCacheDel(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10)

	require.NoError(t, c.SetJSON(ctx, "k", payload{Value: "v"}, 0))
	require.NoError(t, c.Del(ctx, "k", "unknown"))

	hit, err := c.GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCacheOverwriteRefreshes(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10)

	require.NoError(t, c.SetJSON(ctx, "k", payload{Value: "old"}, 0))
	require.NoError(t, c.SetJSON(ctx, "k", payload{Value: "new"}, 0))

	var got payload
	hit, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "new", got.Value)
}
