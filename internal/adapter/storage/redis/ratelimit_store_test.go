package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_Allow(t *testing.T) {
	s, client := newTestClient(t)
	store := NewRateLimitStore(client)
	fixed := time.Unix(1_700_000_010, 0)
	store.now = func() time.Time { return fixed }
	ctx := context.Background()

	t.Run("allows requests within limit", func(t *testing.T) {
		for i := int64(1); i <= 3; i++ {
			result, err := store.Allow(ctx, "webhook:10.0.0.1", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, result.Allowed, "request %d should be allowed", i)
			assert.Equal(t, int64(3), result.Limit)
			assert.Equal(t, 3-i, result.Remaining)
		}
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		result, err := store.Allow(ctx, "webhook:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, int64(0), result.Remaining)
	})

	t.Run("different keys are independent", func(t *testing.T) {
		result, err := store.Allow(ctx, "webhook:10.0.0.2", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, int64(2), result.Remaining)
	})

	t.Run("window key expires", func(t *testing.T) {
		windowID := fixed.Unix() / 60
		assert.Equal(t, (windowID+1)*60, mustAllow(t, store, "admin:x").ResetAt)
		assert.Equal(t, 61*time.Second, s.TTL("ratelimit:admin:x:"+itoa(windowID)))
	})

	t.Run("next window resets", func(t *testing.T) {
		store.now = func() time.Time { return fixed.Add(time.Minute) }
		result, err := store.Allow(ctx, "webhook:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})
}

func TestRateLimitStore_InvalidWindow(t *testing.T) {
	_, client := newTestClient(t)
	store := NewRateLimitStore(client)

	_, err := store.Allow(context.Background(), "k", 1, 500*time.Millisecond)
	assert.Error(t, err)
}

func mustAllow(t *testing.T, store *RateLimitStore, key string) *RateLimitResult {
	t.Helper()
	result, err := store.Allow(context.Background(), key, 10, time.Minute)
	require.NoError(t, err)
	return result
}

func itoa(v int64) string {
	return fmt.Sprintf("%d", v)
}
