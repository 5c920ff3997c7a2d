package deals

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDuplicateDeal indicates the client transaction id was already
	// recorded. The stored deal is returned alongside it.
	ErrDuplicateDeal = errors.New("duplicate deal")
	// ErrDealNotFound is returned for unknown deal ids.
	ErrDealNotFound = errors.New("deal not found")
	// ErrSelfDeal rejects a seller buying their own listing.
	ErrSelfDeal = errors.New("buyer owns the listing")
)

// StatusCompleted is the only state a recorded deal can be in.
const StatusCompleted = "completed"

// Deal is a completed sale of a listing.
type Deal struct {
	ID          string
	ClientTxID  string
	ListingID   string
	SellerID    string
	BuyerID     string
	AmountMinor int64
	Currency    string
	Status      string
	CompletedAt time.Time
}

// Involves reports whether the user is the seller or the buyer.
func (d Deal) Involves(userID string) bool {
	return d.SellerID == userID || d.BuyerID == userID
}

// Counterparty returns the other side of the deal.
func (d Deal) Counterparty(userID string) string {
	if d.SellerID == userID {
		return d.BuyerID
	}
	return d.SellerID
}

// Repository defines the contract implemented by deal stores.
type Repository interface {
	Record(ctx context.Context, deal Deal) (Deal, error)
	Get(ctx context.Context, id string) (Deal, error)
	FindByClientTxID(ctx context.Context, clientTxID string) (Deal, error)
	CountCompleted(ctx context.Context, userID string) (int, error)
}
