//go:build integration

package deals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listinghub/listinghub/internal/identity"
	"github.com/listinghub/listinghub/internal/infra/pgtest"
	"github.com/listinghub/listinghub/internal/listings"
	"github.com/listinghub/listinghub/internal/notification"
)

func TestPostgresCompleteIsIdempotent(t *testing.T) {
	pool := pgtest.NewPool(t)
	ctx := context.Background()

	users := identity.NewService(identity.NewPostgresRepository(pool))
	seller, err := users.Register(ctx, identity.RegisterInput{Email: "seller@listinghub.test", Password: "correct-horse"})
	require.NoError(t, err)
	buyer, err := users.Register(ctx, identity.RegisterInput{Email: "buyer@listinghub.test", Password: "correct-horse"})
	require.NoError(t, err)

	listingSvc := listings.NewService(listings.NewPostgresRepository(pool))
	listing, err := listingSvc.Create(ctx, listings.CreateInput{OwnerID: seller.ID, Title: "Scooter", PriceMinor: 90_000})
	require.NoError(t, err)

	svc := NewService(NewPostgresRepository(pool), listingSvc, &notification.Recorder{})
	first, err := svc.Complete(ctx, CompleteInput{ListingID: listing.ID, BuyerID: buyer.ID, ClientTxID: "pg-1"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), first.CompletedAt, time.Minute)

	again, err := svc.Complete(ctx, CompleteInput{ListingID: listing.ID, BuyerID: buyer.ID, ClientTxID: "pg-1"})
	assert.ErrorIs(t, err, ErrDuplicateDeal)
	assert.Equal(t, first.ID, again.ID)

	count, err := svc.CountCompleted(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = svc.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrDealNotFound)
}
