package verification

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/listinghub/listinghub/internal/identity"
)

// Handler exposes verification endpoints for the authenticated user.
type Handler struct {
	service *Service
}

// NewHandler constructs a verification handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type documentRequest struct {
	Kind    string `json:"kind"`
	Number  string `json:"number"`
	Country string `json:"country"`
}

type addressRequest struct {
	Line1          string `json:"line1"`
	City           string `json:"city"`
	Country        string `json:"country"`
	ProofReference string `json:"proof_reference"`
}

type resultResponse struct {
	Verification identity.Verification `json:"verification"`
	Reference    string                `json:"reference,omitempty"`
	Status       string                `json:"status,omitempty"`
	Reason       string                `json:"reason,omitempty"`
}

// Email confirms the caller's email.
func (h *Handler) Email(c *fiber.Ctx) error {
	res, err := h.service.ConfirmEmail(c.UserContext(), userID(c))
	return respond(c, res, err)
}

// Phone confirms the caller's phone.
func (h *Handler) Phone(c *fiber.Ctx) error {
	res, err := h.service.ConfirmPhone(c.UserContext(), userID(c))
	return respond(c, res, err)
}

// Document submits an identity document.
func (h *Handler) Document(c *fiber.Ctx) error {
	var req documentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.service.SubmitDocument(c.UserContext(), userID(c), DocumentSubmission(req))
	return respond(c, res, err)
}

// Address submits a proof of address.
func (h *Handler) Address(c *fiber.Ctx) error {
	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.service.SubmitAddress(c.UserContext(), userID(c), AddressSubmission(req))
	return respond(c, res, err)
}

func userID(c *fiber.Ctx) string {
	uid, _ := c.Locals("user_id").(string)
	return uid
}

func respond(c *fiber.Ctx, res Result, err error) error {
	if err != nil {
		switch {
		case errors.Is(err, ErrRejected):
			out := resultResponse{Status: StatusRejected}
			if res.Decision != nil {
				out.Reference = res.Decision.Reference
				out.Reason = res.Decision.Reason
			}
			return c.Status(http.StatusUnprocessableEntity).JSON(out)
		case errors.Is(err, ErrPhoneMissing):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, identity.ErrUserNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		default:
			return err
		}
	}

	out := resultResponse{Verification: res.Verification}
	if res.Decision != nil {
		out.Reference = res.Decision.Reference
		out.Status = res.Decision.Status
	}
	return c.Status(http.StatusOK).JSON(out)
}
