package profile

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/listinghub/listinghub/internal/identity"
	"github.com/listinghub/listinghub/internal/reviews"
	"github.com/listinghub/listinghub/internal/trust"
)

// UserSource looks users up by id.
type UserSource interface {
	Get(ctx context.Context, id string) (identity.User, error)
}

// DealCounter counts completed deals a user took part in.
type DealCounter interface {
	CountCompleted(ctx context.Context, userID string) (int, error)
}

// ReviewSummarizer aggregates the reviews a user received.
type ReviewSummarizer interface {
	Summary(ctx context.Context, subjectID string) (reviews.Summary, error)
}

// Loader assembles a signal snapshot from the stores.
type Loader struct {
	users   UserSource
	deals   DealCounter
	reviews ReviewSummarizer
	now     func() time.Time
}

// NewLoader builds a loader using the wall clock.
func NewLoader(users UserSource, deals DealCounter, reviews ReviewSummarizer) *Loader {
	return NewLoaderWithClock(users, deals, reviews, time.Now)
}

// NewLoaderWithClock builds a loader that derives account age from now.
func NewLoaderWithClock(users UserSource, deals DealCounter, reviews ReviewSummarizer, now func() time.Time) *Loader {
	return &Loader{users: users, deals: deals, reviews: reviews, now: now}
}

// Load fetches the user, then their deal count and review summary in
// parallel, and derives the signals the engine consumes.
func (l *Loader) Load(ctx context.Context, userID string) (identity.User, trust.UserSignals, error) {
	user, err := l.users.Get(ctx, userID)
	if err != nil {
		return identity.User{}, trust.UserSignals{}, err
	}

	var (
		completed int
		summary   reviews.Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		completed, err = l.deals.CountCompleted(gctx, user.ID)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = l.reviews.Summary(gctx, user.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return identity.User{}, trust.UserSignals{}, err
	}

	v := user.Verification
	signals := trust.UserSignals{
		EmailVerified:            v.Email,
		PhoneVerified:            v.Phone,
		IdentityDocumentVerified: v.IdentityDocument,
		AddressProofVerified:     v.AddressProof,
		CompletedTransactions:    completed,
		AverageRating:            summary.Average,
		ReviewCount:              summary.Count,
		AccountAgeDays:           accountAgeDays(user.CreatedAt, l.now()),
		UserType:                 user.Type,
		PremiumUntil:             user.PremiumUntil,
		Verified:                 v.Verified,
	}
	return user, signals.Normalized(), nil
}

func accountAgeDays(created, now time.Time) int {
	if created.IsZero() || now.Before(created) {
		return 0
	}
	return int(now.Sub(created) / (24 * time.Hour))
}
