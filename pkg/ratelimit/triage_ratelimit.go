// Package ratelimit provides a fixed-window request limiter with Redis and
// in-memory backends.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a keyed request may proceed.
type Limiter interface {
	// Allow reports whether the request identified by key fits the
	// current window. Backend failures fail open.
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts requests per key in fixed one-minute windows shared
// across instances.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	prefix string
}

// NewRedisLimiter creates a limiter allowing limit requests per minute.
func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, prefix: "ratelimit"}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := time.Now().Unix() / 60
	bucket := fmt.Sprintf("%s:%s:%d", l.prefix, key, window)

	count, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		l.client.Expire(ctx, bucket, 2*time.Minute)
	}
	return count <= int64(l.limit), nil
}

// MemoryLimiter is the single-instance fallback.
type MemoryLimiter struct {
	mu     sync.Mutex
	limit  int
	window int64
	counts map[string]int
}

// NewMemoryLimiter creates a limiter allowing limit requests per minute.
func NewMemoryLimiter(limit int) *MemoryLimiter {
	return &MemoryLimiter{limit: limit, counts: make(map[string]int)}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	window := time.Now().Unix() / 60

	l.mu.Lock()
	defer l.mu.Unlock()

	if window != l.window {
		l.window = window
		l.counts = make(map[string]int)
	}
	l.counts[key]++
	return l.counts[key] <= l.limit, nil
}
