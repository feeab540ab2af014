package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var errRateLimited = errors.New("rate limit exceeded")

// WindowCounter counts hits on key within a window that expires after ttl.
type WindowCounter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type redisCounter struct {
	client *redis.Client
}

// NewRedisCounter counts with INCR and EXPIRE in one pipeline.
func NewRedisCounter(client *redis.Client) WindowCounter {
	return &redisCounter{client: client}
}

func (r *redisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimiter enforces a fixed window of requests per owner.
type RateLimiter struct {
	counter WindowCounter
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(counter WindowCounter, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{counter: counter, limit: limit, window: window, now: time.Now}
}

// Middleware must run after AuthMiddleware. Counter errors let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, err := getOwnerIDFromContext(c)
		if err != nil {
			respondError(c, err)
			return
		}

		windowStart := rl.now().Truncate(rl.window)
		key := fmt.Sprintf("ratelimit:recipes:%s:%d", ownerID, windowStart.Unix())
		count, err := rl.counter.Incr(c.Request.Context(), key, rl.window)
		if err != nil {
			slog.Warn("rate limit check failed", "ownerId", ownerID, "err", err)
			c.Next()
			return
		}

		remaining := rl.limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(windowStart.Add(rl.window).Unix(), 10))

		if count > int64(rl.limit) {
			respondError(c, errRateLimited)
			return
		}
		c.Next()
	}
}
