package middleware

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	loginRateLimitPrefix = "rl:login:"
	loginRateWindow      = time.Minute
	defaultLoginAttempts = 5
)

// LoginRateLimit caps login attempts per email, or per IP when the body
// carries no email, over a fixed one-minute window. Cache errors fail open.
func LoginRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = defaultLoginAttempts
	}
	limit := strconv.Itoa(maxPerMin)

	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}

		var req struct {
			Email string `json:"email"`
		}
		_ = c.BodyParser(&req)
		subject := strings.ToLower(strings.TrimSpace(req.Email))
		if subject == "" {
			subject = c.IP()
		}
		key := loginRateLimitPrefix + subject

		ctx := c.UserContext()
		count, err := cache.Incr(ctx, key).Result()
		if err != nil {
			return c.Next()
		}
		if count == 1 {
			cache.Expire(ctx, key, loginRateWindow)
		}

		c.Set("X-RateLimit-Limit", limit)
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(max(int64(maxPerMin)-count, 0), 10))
		if count <= int64(maxPerMin) {
			return c.Next()
		}

		retry := loginRateWindow
		if ttl, err := cache.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			retry = ttl
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retry.Seconds()))))
		return fiber.NewError(fiber.StatusTooManyRequests, "too many login attempts, try again later")
	}
}
