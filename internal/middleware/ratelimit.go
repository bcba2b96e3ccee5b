package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// counter is the slice of Redis the limiter needs. Tests substitute an
// in-memory implementation.
type counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, window time.Duration) error
}

type redisCounter struct {
	rdb *redis.Client
}

func (r redisCounter) Incr(ctx context.Context, key string) (int64, error) {
	return r.rdb.Incr(ctx, key).Result()
}

func (r redisCounter) Expire(ctx context.Context, key string, window time.Duration) error {
	return r.rdb.Expire(ctx, key, window).Err()
}

// RateLimiter is a fixed-window limiter counting requests per resolved
// identity, falling back to the client IP for anonymous requests.
type RateLimiter struct {
	counts counter
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{counts: redisCounter{rdb: rdb}, prefix: prefix, limit: limit, window: window}
}

// Middleware counts the request against its identity's window. It must
// be registered after Identity.
func (r *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("%s:%s", r.prefix, r.key(c))
		ctx := context.Background()
		count, err := r.counts.Incr(ctx, key)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("rate limiter unavailable")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
		if count == 1 {
			if err := r.counts.Expire(ctx, key, r.window); err != nil {
				log.Error().Err(err).Str("key", key).Msg("set rate limit window")
			}
		}
		if count > int64(r.limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}
		return c.Next()
	}
}

func (r *RateLimiter) key(c *fiber.Ctx) string {
	if user := User(c); user != "" {
		return user
	}
	return c.IP()
}
