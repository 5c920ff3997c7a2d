package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders handler errors as {"error": ..., "request_id": ...}.
// Messages of unexpected errors are not exposed to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	body := fiber.Map{"error": message}
	if id := RequestIDFrom(c); id != "" {
		body["request_id"] = id
	}
	return c.Status(code).JSON(body)
}

// statusOf is the status a request ends with once err, if any, has been
// rendered by ErrorHandler.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
