package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return s, client
}

func TestProcessedCache_MarkAndCheck(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewProcessedCache(client)
	ctx := context.Background()

	seen, err := cache.IsProcessed(ctx, "pay_1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, cache.MarkProcessed(ctx, "pay_1", time.Hour))

	seen, err = cache.IsProcessed(ctx, "pay_1")
	require.NoError(t, err)
	assert.True(t, seen)

	assert.True(t, s.Exists("payment:processed:pay_1"))
	assert.Equal(t, time.Hour, s.TTL("payment:processed:pay_1"))
}

func TestProcessedCache_Expires(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewProcessedCache(client)
	ctx := context.Background()

	require.NoError(t, cache.MarkProcessed(ctx, "pay_1", time.Second))
	s.FastForward(2 * time.Second)

	seen, err := cache.IsProcessed(ctx, "pay_1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestProcessedCache_ServerDown(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewProcessedCache(client)
	s.Close()

	_, err := cache.IsProcessed(context.Background(), "pay_1")
	assert.Error(t, err)
	assert.Error(t, cache.MarkProcessed(context.Background(), "pay_1", time.Second))
}
