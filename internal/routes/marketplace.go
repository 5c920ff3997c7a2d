package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/listinghub/listinghub/internal/deals"
	"github.com/listinghub/listinghub/internal/listings"
	"github.com/listinghub/listinghub/internal/reviews"
	"github.com/listinghub/listinghub/internal/verification"
)

// RegisterListingRoutes wires listing endpoints.
func RegisterListingRoutes(r fiber.Router, h *listings.Handler) {
	r.Post("/listings", h.Create)
	r.Get("/listings/mine", h.Mine)
	r.Get("/listings/:listingId", h.Get)
}

// RegisterDealRoutes wires the deal and review endpoints behind the
// idempotency middleware.
func RegisterDealRoutes(r fiber.Router, dh *deals.Handler, rh *reviews.Handler, idem fiber.Handler) {
	r.Post("/deals", idem, dh.Complete)
	r.Post("/reviews", idem, rh.Submit)
}

// RegisterVerificationRoutes wires the verification steps.
func RegisterVerificationRoutes(r fiber.Router, h *verification.Handler) {
	group := r.Group("/verification")
	group.Post("/email", h.Email)
	group.Post("/phone", h.Phone)
	group.Post("/document", h.Document)
	group.Post("/address", h.Address)
}
