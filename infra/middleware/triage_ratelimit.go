package middleware

import (
	"github.com/gofiber/fiber/v2"

	"triage_server/pkg/apperr"
	"triage_server/pkg/logger"
	"triage_server/pkg/ratelimit"
)

// NewRateLimit limits requests per client IP. Limiter backend failures fail
// open; dropping submissions because Redis blinked is worse than letting a
// burst through.
func NewRateLimit(limiter ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			logger.WithError(err).Warn("rate limiter backend failed, allowing request")
			return c.Next()
		}
		if !ok {
			return apperr.ErrRateLimited
		}
		return c.Next()
	}
}
