package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/listinghub/listinghub/internal/metrics"
)

// Metrics counts requests by their route pattern so ids stay out of labels.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		m.IncrementRequest(c.Method(), c.Route().Path, statusOf(c, err))
		return err
	}
}
