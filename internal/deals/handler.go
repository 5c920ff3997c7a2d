package deals

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/listinghub/listinghub/internal/listings"
)

// Handler exposes deal endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a deal handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type completeRequest struct {
	ListingID  string `json:"listing_id"`
	ClientTxID string `json:"client_tx_id"`
}

type dealResponse struct {
	ID          string    `json:"id"`
	ClientTxID  string    `json:"client_tx_id"`
	ListingID   string    `json:"listing_id"`
	SellerID    string    `json:"seller_id"`
	BuyerID     string    `json:"buyer_id"`
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CompletedAt time.Time `json:"completed_at"`
}

// Complete closes a sale where the caller is the buyer.
func (h *Handler) Complete(c *fiber.Ctx) error {
	var req completeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	deal, err := h.service.Complete(c.UserContext(), CompleteInput{
		ListingID:  req.ListingID,
		BuyerID:    uid,
		ClientTxID: req.ClientTxID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateDeal):
			return fiber.NewError(http.StatusConflict, "duplicate deal")
		case errors.Is(err, listings.ErrListingNotFound):
			return fiber.NewError(http.StatusNotFound, "listing not found")
		case errors.Is(err, listings.ErrListingNotActive):
			return fiber.NewError(http.StatusConflict, "listing is not active")
		case errors.Is(err, ErrSelfDeal):
			return fiber.NewError(http.StatusForbidden, "cannot buy your own listing")
		default:
			return err
		}
	}

	return c.Status(http.StatusCreated).JSON(dealResponse{
		ID:          deal.ID,
		ClientTxID:  deal.ClientTxID,
		ListingID:   deal.ListingID,
		SellerID:    deal.SellerID,
		BuyerID:     deal.BuyerID,
		AmountMinor: deal.AmountMinor,
		Currency:    deal.Currency,
		Status:      deal.Status,
		CompletedAt: deal.CompletedAt,
	})
}
