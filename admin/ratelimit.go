// Copyright 2025 WebApp Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package admin

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"webapp/platform/shared/logger"
)

// DefaultRateLimit is the number of administrative requests allowed per
// caller per window.
const DefaultRateLimit = 60

// DefaultRateWindow is the sliding window over which requests are
// counted.
const DefaultRateWindow = time.Minute

// RateLimiter decides whether a caller identified by key may make
// another request right now.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryRateLimiter is a sliding-window limiter held in process memory.
// Suitable for a single host; use RedisRateLimiter when several hosts
// share the limit.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	seen    map[string][]time.Time
	limit   int
	window  time.Duration
	nowFunc func() time.Time
}

// NewMemoryRateLimiter creates a limiter allowing limit requests per
// window for each key.
func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		seen:    make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		nowFunc: time.Now,
	}
}

// Allow records the request and reports whether it fits in the window.
func (l *MemoryRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	cutoff := now.Add(-l.window)

	recent := l.seen[key][:0]
	for _, t := range l.seen[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.seen[key] = recent
		return false, nil
	}

	l.seen[key] = append(recent, now)
	return true, nil
}

// RedisRateLimiter implements the same sliding window in Redis so the
// limit holds across replicas. Each caller gets a sorted set keyed by
// request timestamp; old members age out of the window.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	log    *logger.Logger
}

// NewRedisRateLimiter connects to the Redis instance at url and returns
// a limiter allowing limit requests per window.
func NewRedisRateLimiter(url string, limit int, window time.Duration, log *logger.Logger) (*RedisRateLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisRateLimiter{client: client, limit: limit, window: window, log: log}, nil
}

// Allow counts recent requests for key in Redis. On a Redis failure it
// fails open so that a cache outage does not lock out the admin API.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "ratelimit:admin:" + key
	now := time.Now()
	windowStart := now.Add(-l.window)

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		l.log.Warn("rate limit check failed, allowing request", map[string]interface{}{
			"error": err.Error(),
		})
		return true, nil
	}

	if countCmd.Val() >= int64(l.limit) {
		return false, nil
	}

	addPipe := l.client.Pipeline()
	addPipe.ZAdd(ctx, redisKey, &redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	addPipe.Expire(ctx, redisKey, l.window)
	if _, err := addPipe.Exec(ctx); err != nil {
		l.log.Warn("rate limit record failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return true, nil
}

// Close releases the Redis connection.
func (l *RedisRateLimiter) Close() error {
	return l.client.Close()
}

// callerKey identifies the caller for rate limiting purposes. Prefers
// the remote address without the ephemeral port.
func callerKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
