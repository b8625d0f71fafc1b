package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"messaging-service/internal/observability"
)

// RateLimitConfig configures the sliding-window rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyPrefix         string
}

// DefaultRateLimitConfig returns the default limiter settings.
func DefaultRateLimitConfig(requestsPerMinute int) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		KeyPrefix:         "api:ratelimit:",
	}
}

// rateLimitScript implements an atomic sliding window. Keys expire with the
// window, so memory stays bounded without an eviction job.
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local window_start = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('EXPIRE', key, math.ceil(window / 1000) + 1)
    return {1, limit - count - 1, 0}
else
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local reset_at = 0
    if #oldest >= 2 then
        reset_at = tonumber(oldest[2]) + window
    end
    return {0, 0, reset_at}
end
`)

// limiterKey buckets by principal when authenticated and by client IP on
// public routes.
func limiterKey(c *gin.Context, prefix string) string {
	if userID := UserIDFromContext(c); userID != uuid.Nil {
		return prefix + userID.String()
	}
	return prefix + c.ClientIP()
}

// RateLimit limits requests per principal, falling back to the client IP for
// unauthenticated requests. Redis errors fail open.
func RateLimit(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := limiterKey(c, cfg.KeyPrefix)

		now := time.Now().UnixMilli()
		windowMs := int64(60 * 1000)

		result, err := rateLimitScript.Run(context.Background(), redisClient, []string{key},
			cfg.RequestsPerMinute, windowMs, now,
		).Int64Slice()
		if err != nil {
			c.Next()
			return
		}

		allowed := result[0] == 1
		remaining := result[1]
		resetAt := result[2]

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			retryAfter := (resetAt - now) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt/1000, 10))
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			observability.IncRateLimited()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
