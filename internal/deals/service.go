package deals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/listinghub/listinghub/internal/listings"
	"github.com/listinghub/listinghub/internal/notification"
)

// ListingStore is the part of the listing service a sale needs.
type ListingStore interface {
	Get(ctx context.Context, id string) (listings.Listing, error)
	MarkSold(ctx context.Context, id string) error
}

// Service completes sales of listings.
type Service struct {
	repo     Repository
	listings ListingStore
	notifier notification.Notifier
}

// NewService constructs a deal service.
func NewService(repo Repository, listings ListingStore, notifier notification.Notifier) *Service {
	return &Service{repo: repo, listings: listings, notifier: notifier}
}

// CompleteInput captures the data needed to close a sale.
type CompleteInput struct {
	ListingID  string
	BuyerID    string
	ClientTxID string
}

// Complete records the sale of an active listing to the buyer, marks the
// listing sold and notifies the seller. Replaying a client transaction id
// returns the stored deal with ErrDuplicateDeal.
func (s *Service) Complete(ctx context.Context, input CompleteInput) (Deal, error) {
	if input.ClientTxID == "" {
		input.ClientTxID = uuid.New().String()
	}
	if existing, err := s.repo.FindByClientTxID(ctx, input.ClientTxID); err == nil {
		return existing, ErrDuplicateDeal
	} else if !errors.Is(err, ErrDealNotFound) {
		return Deal{}, err
	}

	listing, err := s.listings.Get(ctx, input.ListingID)
	if err != nil {
		return Deal{}, err
	}
	if listing.OwnerID == input.BuyerID {
		return Deal{}, ErrSelfDeal
	}
	if listing.Status != listings.StatusActive {
		return Deal{}, listings.ErrListingNotActive
	}

	if err := s.listings.MarkSold(ctx, listing.ID); err != nil {
		// a concurrent replay of the same request may have won the listing
		if errors.Is(err, listings.ErrListingNotActive) {
			if existing, findErr := s.repo.FindByClientTxID(ctx, input.ClientTxID); findErr == nil {
				return existing, ErrDuplicateDeal
			}
		}
		return Deal{}, err
	}

	deal, err := s.repo.Record(ctx, Deal{
		ID:          uuid.New().String(),
		ClientTxID:  input.ClientTxID,
		ListingID:   listing.ID,
		SellerID:    listing.OwnerID,
		BuyerID:     input.BuyerID,
		AmountMinor: listing.PriceMinor,
		Currency:    listing.Currency,
		Status:      StatusCompleted,
		CompletedAt: time.Now().UTC(),
	})
	if err != nil {
		return deal, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindDealCompleted,
			Destination: deal.SellerID,
			Body:        fmt.Sprintf("Your listing %q sold for %d %s", listing.Title, deal.AmountMinor, deal.Currency),
		})
	}

	return deal, nil
}

// Get returns a deal by id.
func (s *Service) Get(ctx context.Context, id string) (Deal, error) {
	return s.repo.Get(ctx, id)
}

// CountCompleted returns how many completed deals the user took part in.
func (s *Service) CountCompleted(ctx context.Context, userID string) (int, error) {
	return s.repo.CountCompleted(ctx, userID)
}
