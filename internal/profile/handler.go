package profile

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/listinghub/listinghub/internal/identity"
)

// Handler exposes profile endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a profile handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get returns the trust profile of the user in the path.
func (h *Handler) Get(c *fiber.Ctx) error {
	return h.respond(c, c.Params("userId"))
}

// Tiers lists the membership tiers.
func (h *Handler) Tiers(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"tiers": h.service.Tiers()})
}

func (h *Handler) respond(c *fiber.Ctx, userID string) error {
	p, err := h.service.Profile(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(p)
}
