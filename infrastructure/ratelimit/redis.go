package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a sliding window limiter shared by every bot process
// through a Redis sorted set per key
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisLimiter allows limit attempts per key within window
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "guildledger:ratelimit:",
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := l.prefix + key
	now := l.now()
	cutoff := now.Add(-l.window).UnixMicro()

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(cutoff, 10))
	count := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to read rate limit window: %w", err)
	}

	if count.Val() >= int64(l.limit) {
		var retryAfter time.Duration
		if first := oldest.Val(); len(first) > 0 {
			oldestAt := time.UnixMicro(int64(first[0].Score))
			retryAfter = oldestAt.Add(l.window).Sub(now)
		}
		return false, retryAfter, nil
	}

	pipe = l.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMicro()), Member: uuid.NewString()})
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to record rate limit attempt: %w", err)
	}

	return true, 0, nil
}
