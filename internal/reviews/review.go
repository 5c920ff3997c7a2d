package reviews

import (
	"context"
	"errors"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrDuplicateReview is returned when the author already rated the deal.
	ErrDuplicateReview = errors.New("deal already reviewed by this user")
	// ErrNotParty rejects reviews from users outside the deal.
	ErrNotParty = errors.New("only deal parties can review")
	// ErrInvalidRating rejects ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Review is one party's rating of the other after a deal.
type Review struct {
	ID        string
	DealID    string
	AuthorID  string
	SubjectID string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Summary aggregates the reviews a user received.
type Summary struct {
	Average float64
	Count   int
}

// Repository stores reviews.
type Repository interface {
	Create(ctx context.Context, review Review) error
	Summary(ctx context.Context, subjectID string) (Summary, error)
}
