package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit"

// LimitResult reports one admission decision.
type LimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RateLimiter is a per-identifier sliding-window limiter on a Redis sorted set:
// each request is a member scored by its timestamp, members older than the
// window are trimmed, and the set cardinality is the request count in window.
type RateLimiter struct{}

func (r *RateLimiter) Allow(ctx context.Context, scope, identifier string, limit int, window time.Duration) (LimitResult, error) {
	now := time.Now()
	key := fmt.Sprintf("%s:%s:%s", rateLimitPrefix, scope, identifier)

	pipe := Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now.Add(-window).UnixMilli()))
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	card := pipe.ZCard(ctx, key)
	pipe.PExpire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return LimitResult{}, err
	}

	n := int(card.Val())
	remaining := limit - n
	if remaining < 0 {
		remaining = 0
	}
	return LimitResult{
		Allowed:   n <= limit,
		Limit:     limit,
		Remaining: remaining,
		Reset:     now.Add(window),
	}, nil
}
