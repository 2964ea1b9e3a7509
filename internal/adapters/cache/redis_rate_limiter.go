package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisScanRateLimiter is a fixed-window per-key counter: the first attempt
// in a window sets the TTL, the window resets when the key expires. Counting
// through INCR keeps concurrent scans from the same IP race-free.
type RedisScanRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRedisScanRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisScanRateLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Hour
	}
	return &RedisScanRateLimiter{client: client, limit: int64(limit), window: window}
}

func (l *RedisScanRateLimiter) Allow(ctx context.Context, key string, _ time.Time) (bool, error) {
	redisKey := "visibility:scanlimit:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= l.limit, nil
}
