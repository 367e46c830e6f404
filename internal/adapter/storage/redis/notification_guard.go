package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// NotificationGuard implements ports.NotificationGuard using Redis SET NX.
type NotificationGuard struct {
	client goredis.Cmdable
	prefix string
}

// NewNotificationGuard creates a new Redis-backed notification guard.
func NewNotificationGuard(client goredis.Cmdable) *NotificationGuard {
	return &NotificationGuard{
		client: client,
		prefix: "payment:notified:",
	}
}

// Claim atomically reserves the receipt for paymentID.
// Returns true if the claim is new, false if someone already holds it.
func (g *NotificationGuard) Claim(ctx context.Context, paymentID string, ttl time.Duration) (bool, error) {
	result, err := g.client.SetArgs(ctx, g.prefix+paymentID, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis notification claim: %w", err)
	}
	return result == "OK", nil
}
