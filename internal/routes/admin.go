package routes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/listinghub/listinghub/internal/identity"
	"github.com/listinghub/listinghub/internal/notification"
)

// RegisterAdminRoutes wires premium management. The group must already be
// restricted to admins.
func RegisterAdminRoutes(r fiber.Router, ids *identity.Service, notifier notification.Notifier, logger *slog.Logger) {
	r.Put("/users/:userId/premium", func(c *fiber.Ctx) error {
		var req struct {
			Until time.Time `json:"until"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		user, err := ids.GrantPremium(c.UserContext(), c.Params("userId"), req.Until)
		if err != nil {
			return premiumError(err)
		}
		_ = notifier.Send(c.UserContext(), notification.Message{
			Kind:        notification.KindPremiumGranted,
			Destination: user.ID,
			Body:        fmt.Sprintf("Premium membership active until %s", req.Until.UTC().Format(time.RFC3339)),
		})
		adminID, _ := c.Locals("user_id").(string)
		logger.Info("admin.premium granted",
			slog.String("admin_id", adminID),
			slog.String("user_id", user.ID),
			slog.Time("until", req.Until),
		)
		return c.Status(http.StatusOK).JSON(fiber.Map{"user_id": user.ID, "premium_until": user.PremiumUntil})
	})

	r.Delete("/users/:userId/premium", func(c *fiber.Ctx) error {
		user, err := ids.RevokePremium(c.UserContext(), c.Params("userId"))
		if err != nil {
			return premiumError(err)
		}
		adminID, _ := c.Locals("user_id").(string)
		logger.Info("admin.premium revoked", slog.String("admin_id", adminID), slog.String("user_id", user.ID))
		return c.Status(http.StatusOK).JSON(fiber.Map{"user_id": user.ID, "premium_until": nil})
	})
}

func premiumError(err error) error {
	switch {
	case errors.Is(err, identity.ErrUserNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, identity.ErrPremiumInPast):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
