package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ProcessedCache implements ports.ProcessedCache. A key exists for every
// payment id the store has already accepted.
type ProcessedCache struct {
	client goredis.Cmdable
	prefix string
}

// NewProcessedCache creates a new Redis-backed processed-payment cache.
func NewProcessedCache(client goredis.Cmdable) *ProcessedCache {
	return &ProcessedCache{
		client: client,
		prefix: "payment:processed:",
	}
}

// IsProcessed reports whether paymentID has been marked.
func (c *ProcessedCache) IsProcessed(ctx context.Context, paymentID string) (bool, error) {
	err := c.client.Get(ctx, c.prefix+paymentID).Err()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis processed get: %w", err)
	}
	return true, nil
}

// MarkProcessed records paymentID with ttl.
func (c *ProcessedCache) MarkProcessed(ctx context.Context, paymentID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+paymentID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis processed set: %w", err)
	}
	return nil
}
