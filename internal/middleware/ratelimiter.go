package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/estatehub/backend-go/internal/database"
)

// RateLimiter counts requests per fixed window
type RateLimiter interface {
	// Allow records one hit on key and reports whether it stays within limit.
	// retryAfter is the remaining window when the hit is rejected.
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (allowed bool, remaining int64, retryAfter time.Duration, err error)

	// Limit returns a gin middleware limiting each caller within scope
	Limit(scope string, limit int64, window time.Duration) gin.HandlerFunc
}

type redisRateLimiter struct {
	redis  *database.RedisClient
	logger *slog.Logger
}

// NewRateLimiter creates a new Redis-based rate limiter
func NewRateLimiter(redis *database.RedisClient, logger *slog.Logger) RateLimiter {
	return &redisRateLimiter{
		redis:  redis,
		logger: logger,
	}
}

// windowKey generates the Redis key for one caller in one scope
// Format: rate:{scope}:{caller}
func windowKey(scope, caller string) string {
	return fmt.Sprintf("rate:%s:%s", scope, caller)
}

func (r *redisRateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, time.Duration, error) {
	// If limit is 0 or negative, unlimited
	if limit <= 0 {
		return true, -1, 0, nil
	}

	count, err := r.redis.IncrementWindow(ctx, key, window)
	if err != nil {
		// On error, allow the request but log it
		r.logger.Error("❌ [RateLimiter] Failed to count request", "error", err, "key", key)
		return true, limit, 0, err
	}

	remaining := limit - count
	if remaining >= 0 {
		return true, remaining, 0, nil
	}

	ttl, err := r.redis.TTL(ctx, key)
	if err != nil || ttl == 0 {
		ttl = window
	}
	return false, 0, ttl, nil
}

func (r *redisRateLimiter) Limit(scope string, limit int64, window time.Duration) gin.HandlerFunc {
	return limitHandler(r, scope, limit, window, r.logger)
}

// NoOpRateLimiter is a rate limiter that always allows requests
// Used when Redis is not available
type NoOpRateLimiter struct {
	logger *slog.Logger
}

// NewNoOpRateLimiter creates a no-op rate limiter
func NewNoOpRateLimiter(logger *slog.Logger) RateLimiter {
	logger.Warn("⚠️ [RateLimiter] Using no-op rate limiter - rate limiting is disabled")
	return &NoOpRateLimiter{logger: logger}
}

func (r *NoOpRateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, time.Duration, error) {
	return true, -1, 0, nil
}

func (r *NoOpRateLimiter) Limit(scope string, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

func limitHandler(limiter RateLimiter, scope string, limit int64, window time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := "ip:" + c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			caller = "user:" + userID.String()
		}

		allowed, remaining, retryAfter, err := limiter.Allow(c.Request.Context(), windowKey(scope, caller), limit, window)
		if err != nil {
			// Fail open
			c.Next()
			return
		}

		if limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		}

		if !allowed {
			seconds := int64(retryAfter.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			logger.Warn("⚠️ [RateLimiter] Limit exceeded", "scope", scope, "caller", caller)
			c.Header("Retry-After", strconv.FormatInt(seconds, 10))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later"})
			c.Abort()
			return
		}

		c.Next()
	}
}
