package reviews

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/listinghub/listinghub/internal/deals"
	"github.com/listinghub/listinghub/internal/notification"
)

// DealLookup fetches the deal a review refers to.
type DealLookup interface {
	Get(ctx context.Context, id string) (deals.Deal, error)
}

// Service records reviews between deal parties.
type Service struct {
	repo     Repository
	deals    DealLookup
	notifier notification.Notifier
}

// NewService constructs a review service.
func NewService(repo Repository, deals DealLookup, notifier notification.Notifier) *Service {
	return &Service{repo: repo, deals: deals, notifier: notifier}
}

// SubmitInput is a rating left by the author on a deal.
type SubmitInput struct {
	DealID   string
	AuthorID string
	Rating   int
	Comment  string
}

// Submit stores the author's rating of their counterparty on the deal.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (Review, error) {
	if input.Rating < MinRating || input.Rating > MaxRating {
		return Review{}, ErrInvalidRating
	}
	deal, err := s.deals.Get(ctx, input.DealID)
	if err != nil {
		return Review{}, err
	}
	if !deal.Involves(input.AuthorID) {
		return Review{}, ErrNotParty
	}

	review := Review{
		ID:        uuid.New().String(),
		DealID:    deal.ID,
		AuthorID:  input.AuthorID,
		SubjectID: deal.Counterparty(input.AuthorID),
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return Review{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindReviewReceived,
			Destination: review.SubjectID,
			Body:        fmt.Sprintf("You received a %d-star review", review.Rating),
		})
	}
	return review, nil
}

// Summary returns the average rating and review count for a user.
func (s *Service) Summary(ctx context.Context, subjectID string) (Summary, error) {
	return s.repo.Summary(ctx, subjectID)
}
