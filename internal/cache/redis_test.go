package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"announceslider/internal/cache"
	"announceslider/internal/model"
)

func newRedisCache(t *testing.T) (*cache.Redis, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedis(client, time.Minute), mr, client
}

func TestRedis_GetSet(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newRedisCache(t)

	published := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	page := []model.AnnouncementItem{{
		ID:          "ann_1",
		Title:       "Dark mode",
		Content:     "<p>Now available</p>",
		Status:      model.StatusPublished,
		CreatedAt:   published,
		UpdatedAt:   published,
		PublishedAt: &published,
		IsNew:       true,
	}}

	_, ok, err := c.Get(ctx, "acme-1-10")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "acme-1-10", page))
	got, ok, err := c.Get(ctx, "acme-1-10")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, page, got)
}

func TestRedis_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr, _ := newRedisCache(t)

	require.NoError(t, c.Set(ctx, "acme-1-10", []model.AnnouncementItem{{ID: "a", Status: model.StatusPublished}}))
	mr.FastForward(61 * time.Second)

	_, ok, err := c.Get(ctx, "acme-1-10")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_ClearOnlyTouchesPrefix(t *testing.T) {
	ctx := context.Background()
	c, mr, _ := newRedisCache(t)

	require.NoError(t, c.Set(ctx, "a-1-10", nil))
	require.NoError(t, c.Set(ctx, "b-2-10", nil))
	require.NoError(t, mr.Set("sessions:xyz", "keep"))

	require.NoError(t, c.Clear(ctx))
	assert.False(t, mr.Exists(cache.RedisKeyPrefix+"a-1-10"))
	assert.False(t, mr.Exists(cache.RedisKeyPrefix+"b-2-10"))
	assert.True(t, mr.Exists("sessions:xyz"))
}

func TestRedis_CorruptValue(t *testing.T) {
	ctx := context.Background()
	c, mr, _ := newRedisCache(t)
	require.NoError(t, mr.Set(cache.RedisKeyPrefix+"bad-1-10", "{not json"))

	_, ok, err := c.Get(ctx, "bad-1-10")
	require.Error(t, err)
	assert.False(t, ok)
}
