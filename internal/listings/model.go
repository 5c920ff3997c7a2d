package listings

import (
	"errors"
	"time"
)

const (
	StatusActive = "active"
	StatusSold   = "sold"
)

var (
	// ErrListingNotFound is returned for unknown listing ids.
	ErrListingNotFound = errors.New("listing not found")
	// ErrListingNotActive is returned when a sold listing is sold again.
	ErrListingNotActive = errors.New("listing is not active")
)

// Listing is an item or property offered by a user.
type Listing struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	PriceMinor  int64
	Currency    string
	Status      string
	CreatedAt   time.Time
}
