package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const healthKey = "payment:health"

// WriteCheck reports Redis healthy only if it accepts writes. The dedupe
// markers and notification claims are useless on a read-only replica.
type WriteCheck struct {
	client goredis.Cmdable
}

func NewWriteCheck(client goredis.Cmdable) *WriteCheck {
	return &WriteCheck{client: client}
}

func (h *WriteCheck) Name() string {
	return "redis"
}

func (h *WriteCheck) Check(ctx context.Context) error {
	return h.client.Set(ctx, healthKey, time.Now().Unix(), 10*time.Second).Err()
}
