// Package ratelimit guards the dashboard API with a per-client sliding
// window kept in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nctirs/nctirs-stack/telemetry/internal/metrics"
)

const keyPrefix = "nctirs:ratelimit:"

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// slidingWindow trims entries older than the window, then admits the
// request only while the set holds fewer than limit members.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, 0, window_start)

	local current = redis.call('ZCARD', key)
	if current < limit then
		redis.call('ZADD', key, now, member)
		redis.call('PEXPIRE', key, ttl)
		return 1
	end
	return 0
`)

type RedisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRedisRateLimiter connects to redisURL and verifies the connection.
func NewRedisRateLimiter(redisURL string, limit int, window time.Duration) (*RedisRateLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisRateLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}, nil
}

// Allow records one request for key and reports whether it fits in the
// current window.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := r.now().UnixMilli()
	windowStart := now - r.window.Milliseconds()

	result, err := slidingWindow.Run(ctx, r.client, []string{keyPrefix + key},
		now, windowStart, r.limit, r.window.Milliseconds(), uuid.NewString()).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowed := result == 1
	if !allowed {
		metrics.RateLimitHits.Inc()
	}
	return allowed, nil
}

// Ping checks the Redis connection; used by the readiness probe.
func (r *RedisRateLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRateLimiter) Close() error {
	return r.client.Close()
}

// NoOpRateLimiter always allows requests.
type NoOpRateLimiter struct{}

func (NoOpRateLimiter) Allow(context.Context, string) (bool, error) {
	return true, nil
}

func (NoOpRateLimiter) Close() error {
	return nil
}
