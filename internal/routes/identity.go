package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/listinghub/listinghub/internal/identity"
)

// RegisterIdentityRoutes wires account registration.
func RegisterIdentityRoutes(r fiber.Router, ids *identity.Service, logger *slog.Logger) {
	r.Post("/identity/register", func(c *fiber.Ctx) error {
		var req struct {
			Email       string `json:"email"`
			Phone       string `json:"phone"`
			Password    string `json:"password"`
			DisplayName string `json:"display_name"`
			UserType    string `json:"user_type"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		user, err := ids.Register(c.UserContext(), identity.RegisterInput{
			Email:       req.Email,
			Phone:       req.Phone,
			Password:    req.Password,
			DisplayName: req.DisplayName,
			UserType:    req.UserType,
		})
		if err != nil {
			if errors.Is(err, identity.ErrUserExists) {
				return fiber.NewError(http.StatusConflict, err.Error())
			}
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		logger.Info("identity.register completed",
			slog.String("user_id", user.ID),
			slog.String("user_type", string(user.Type)),
			slog.Int("status", http.StatusCreated),
		)
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"user_id":      user.ID,
			"email":        user.Email,
			"display_name": user.DisplayName,
			"user_type":    user.Type,
			"role":         user.Role,
		})
	})
}
