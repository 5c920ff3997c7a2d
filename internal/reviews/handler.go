package reviews

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/listinghub/listinghub/internal/deals"
)

// Handler exposes review endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a review handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	DealID  string `json:"deal_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Submit rates the counterparty of a deal the caller took part in.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	review, err := h.service.Submit(c.UserContext(), SubmitInput{
		DealID:   req.DealID,
		AuthorID: uid,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRating):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, deals.ErrDealNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNotParty):
			return fiber.NewError(http.StatusForbidden, err.Error())
		case errors.Is(err, ErrDuplicateReview):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return err
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":         review.ID,
		"deal_id":    review.DealID,
		"subject_id": review.SubjectID,
		"rating":     review.Rating,
		"comment":    review.Comment,
		"created_at": review.CreatedAt,
	})
}
