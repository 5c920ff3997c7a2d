package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/listinghub/listinghub/internal/identity"
	"github.com/listinghub/listinghub/internal/profile"
)

// RegisterProfileRoutes wires the public trust profile and tier catalogue.
func RegisterProfileRoutes(r fiber.Router, h *profile.Handler) {
	r.Get("/membership/tiers", h.Tiers)
	r.Get("/users/:userId/profile", h.Get)
}

// RegisterMeRoute exposes the caller's account next to their trust profile.
func RegisterMeRoute(r fiber.Router, ids *identity.Service, profiles *profile.Service) {
	r.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized")
		}
		user, err := ids.Get(c.UserContext(), uid)
		if err != nil {
			return userLookupError(err)
		}
		p, err := profiles.Profile(c.UserContext(), uid)
		if err != nil {
			return userLookupError(err)
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"user": fiber.Map{
				"id":            user.ID,
				"email":         user.Email,
				"phone":         user.Phone,
				"display_name":  user.DisplayName,
				"user_type":     user.Type,
				"role":          user.Role,
				"verification":  user.Verification,
				"premium_until": user.PremiumUntil,
				"token_version": user.TokenVersion,
				"created_at":    user.CreatedAt,
				"last_login":    user.LastLogin,
			},
			"profile": p,
		})
	})
}

// userLookupError maps a missing user to 404 and leaves anything else for
// the error handler to mask as a 500.
func userLookupError(err error) error {
	if errors.Is(err, identity.ErrUserNotFound) {
		return fiber.NewError(http.StatusNotFound, "user not found")
	}
	return err
}
