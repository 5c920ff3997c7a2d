package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultCurrency = "XAF"

// Service exposes listing operations.
type Service struct {
	repo Repository
}

// NewService builds a listing service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures data required to publish a listing.
type CreateInput struct {
	OwnerID     string
	Title       string
	Description string
	PriceMinor  int64
	Currency    string
}

// Create publishes a new active listing.
func (s *Service) Create(ctx context.Context, input CreateInput) (Listing, error) {
	if _, err := uuid.Parse(input.OwnerID); err != nil {
		return Listing{}, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Listing{}, errors.New("title is required")
	}
	if input.PriceMinor <= 0 {
		return Listing{}, errors.New("price must be positive")
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	listing := Listing{
		ID:          uuid.New().String(),
		OwnerID:     input.OwnerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		PriceMinor:  input.PriceMinor,
		Currency:    currency,
		Status:      StatusActive,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return Listing{}, err
	}

	return listing, nil
}

// Get retrieves a listing.
func (s *Service) Get(ctx context.Context, id string) (Listing, error) {
	return s.repo.Get(ctx, id)
}

// ListByOwner returns every listing published by a user.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Listing, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// MarkSold closes a listing after a completed deal.
func (s *Service) MarkSold(ctx context.Context, id string) error {
	return s.repo.MarkSold(ctx, id)
}
