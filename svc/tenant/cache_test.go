package tenant_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/svc/tenant"
)

func TestLRUCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := tenant.NewLRUCache(2, time.Minute)
	a, b, d := uuid.New(), uuid.New(), uuid.New()

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "a", a))
	require.NoError(t, c.Set(ctx, "b", b))
	got, ok, _ := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, a, got)

	// "b" is least recently used and is evicted.
	require.NoError(t, c.Set(ctx, "d", d))
	_, ok, _ = c.Get(ctx, "b")
	assert.False(t, ok)

	require.NoError(t, c.Delete(ctx, "a"))
	_, ok, _ = c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestLRUCache_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := tenant.NewLRUCache(10, 20*time.Millisecond)
	require.NoError(t, c.Set(ctx, "a", uuid.New()))

	assert.Eventually(t, func() bool {
		_, ok, _ := c.Get(ctx, "a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func setupRedisCache(t *testing.T, ttl time.Duration) (*tenant.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return tenant.NewRedisCache(client, "test:slug:", ttl), mr
}

func TestRedisCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, mr := setupRedisCache(t, time.Minute)
	id := uuid.New()

	_, ok, err := c.Get(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "acme", id))
	assert.Equal(t, id.String(), mustGet(t, mr, "test:slug:acme"))
	assert.Equal(t, time.Minute, mr.TTL("test:slug:acme"))

	got, ok, err := c.Get(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "acme", id))
	require.NoError(t, c.Delete(ctx, "acme"))
	assert.False(t, mr.Exists("test:slug:acme"))
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, mr := setupRedisCache(t, time.Minute)
	require.NoError(t, mr.Set("test:slug:acme", "garbage"))

	_, ok, err := c.Get(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("test:slug:acme"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, mr := setupRedisCache(t, time.Minute)
	mr.Close()

	_, _, err := c.Get(ctx, "acme")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "acme", uuid.New()))
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
