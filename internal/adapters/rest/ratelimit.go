package rest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/example/whisper/internal/logger"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// MemoryLimiter is a per-key token bucket held in process memory.
type MemoryLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter allows perMinute requests per key per minute, with bursts
// up to perMinute.
func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	return &MemoryLimiter{
		entries:   make(map[string]*limiterEntry),
		limit:     rate.Limit(float64(perMinute) / 60.0),
		burst:     perMinute,
		lastSweep: time.Now(),
	}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > time.Minute {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > 3*time.Minute {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.Allow()
}

// RedisLimiter is a fixed-window counter shared through Redis, so every
// server instance enforces the same budget.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter allows limit requests per key per window.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "whisper:rate_limit:",
	}
}

// Allow implements Limiter. Redis errors let the request through.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		logger.Warn().Err(err).Str("key", redisKey).Msg("rate limiter unavailable, allowing request")
		return true
	}

	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			logger.Warn().Err(err).Str("key", redisKey).Msg("failed to set rate limit window")
		}
	}

	return count <= int64(l.limit)
}

// RateLimit rejects requests once the authenticated user exhausts the limiter.
func RateLimit(limiter Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(userIDKey)
		key := fmt.Sprintf("%s:%s", scope, userID)

		if !limiter.Allow(c.Request.Context(), key) {
			logger.Warn().
				Str("user_id", userID).
				Str("path", c.Request.URL.Path).
				Msg("rate limit exceeded")

			fail(c, http.StatusTooManyRequests, CodeRateLimit, "rate limit exceeded, please slow down")
			return
		}

		c.Next()
	}
}
