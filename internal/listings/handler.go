package listings

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes listing HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a listing HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceMinor  int64  `json:"price_minor"`
	Currency    string `json:"currency"`
}

type listingResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceMinor  int64     `json:"price_minor"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Create publishes a listing owned by the authenticated user.
func (h *Handler) Create(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	listing, err := h.service.Create(c.UserContext(), CreateInput{
		OwnerID:     uid,
		Title:       req.Title,
		Description: req.Description,
		PriceMinor:  req.PriceMinor,
		Currency:    req.Currency,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(listing))
}

// Get returns one listing.
func (h *Handler) Get(c *fiber.Ctx) error {
	listing, err := h.service.Get(c.UserContext(), c.Params("listingId"))
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(listing))
}

// Mine lists the authenticated user's listings.
func (h *Handler) Mine(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	items, err := h.service.ListByOwner(c.UserContext(), uid)
	if err != nil {
		return err
	}
	out := make([]listingResponse, 0, len(items))
	for _, l := range items {
		out = append(out, toResponse(l))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"listings": out})
}

func toResponse(l Listing) listingResponse {
	return listingResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		PriceMinor:  l.PriceMinor,
		Currency:    l.Currency,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt,
	}
}
