package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCacheCopiesValue(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()
	v := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", v, 0))
	v[0] = 'x'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisCache(client, "test:", time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	assert.True(t, mr.Exists("test:k"))
	assert.Equal(t, time.Minute, mr.TTL("test:k"))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestKey(t *testing.T) {
	f := models.Filters{CampaignID: "all", ProductID: "all", TrafficSource: "all", DateFrom: "2024-01-01", DateTo: "2024-01-31"}
	cfg := models.AnalyticsConfig{MarginPct: 25, MinClicksForCR: 30}

	k := Key(1, f, cfg)
	assert.Equal(t, k, Key(1, f, cfg))
	assert.NotEqual(t, k, Key(2, f, cfg))

	other := f
	other.ProductID = "123"
	assert.NotEqual(t, k, Key(1, other, cfg))
	assert.NotEqual(t, k, Key(1, f, models.AnalyticsConfig{MarginPct: 30, MinClicksForCR: 30}))
}
