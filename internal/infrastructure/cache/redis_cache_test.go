package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requiere Redis; se omite si TEST_REDIS_ADDR no está definido.
func setupCache(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis no disponible en %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client, "stockpro-test:"+t.Name()+":")
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "miss antes de Set")

	require.NoError(t, c.Set(ctx, "k", []byte(`{"a":1}`), time.Minute))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(got))

	require.NoError(t, c.Delete(ctx, "k", "inexistente"))
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Expira(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ttl", []byte("x"), 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)
	_, ok, err := c.Get(ctx, "ttl")
	require.NoError(t, err)
	assert.False(t, ok)
}
