package verification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listinghub/listinghub/internal/identity"
	"github.com/listinghub/listinghub/internal/notification"
)

func newUser(t *testing.T, repo identity.Repository, phone string) identity.User {
	t.Helper()
	user, err := identity.NewService(repo).Register(context.Background(), identity.RegisterInput{
		Email:    "kyc@listinghub.test",
		Phone:    phone,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

func TestFullVerificationFlow(t *testing.T) {
	repo := identity.NewMemoryRepository()
	user := newUser(t, repo, "+242060000000")
	notifier := &notification.Recorder{}
	svc := NewService(repo, nil, notifier)
	ctx := context.Background()

	res, err := svc.ConfirmEmail(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, res.Verification.Email)
	assert.False(t, res.Verification.Verified)

	res, err = svc.ConfirmPhone(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, res.Verification.Verified)

	res, err = svc.SubmitDocument(ctx, user.ID, DocumentSubmission{Kind: "passport", Number: "P123", Country: "CG"})
	require.NoError(t, err)
	require.NotNil(t, res.Decision)
	assert.True(t, res.Decision.Approved())
	assert.True(t, res.Verification.Verified)

	msg, ok := notifier.Last()
	require.True(t, ok)
	assert.Equal(t, notification.KindVerificationUpdated, msg.Kind)
	assert.Contains(t, msg.Body, "fully verified")

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Verification.Verified)
}

func TestAddressProofDoesNotCountTowardsAggregate(t *testing.T) {
	repo := identity.NewMemoryRepository()
	user := newUser(t, repo, "")
	svc := NewService(repo, StaticProvider{}, nil)
	ctx := context.Background()

	res, err := svc.SubmitAddress(ctx, user.ID, AddressSubmission{Line1: "1 Av. de la Paix", City: "Brazzaville", Country: "CG", ProofReference: "bill-42"})
	require.NoError(t, err)
	assert.True(t, res.Verification.AddressProof)
	assert.False(t, res.Verification.Verified)
}

func TestRejectedSubmissionsLeaveFlagsUntouched(t *testing.T) {
	repo := identity.NewMemoryRepository()
	user := newUser(t, repo, "")
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	res, err := svc.SubmitDocument(ctx, user.ID, DocumentSubmission{Kind: "library_card", Number: "1", Country: "CG"})
	assert.ErrorIs(t, err, ErrRejected)
	require.NotNil(t, res.Decision)
	assert.Equal(t, StatusRejected, res.Decision.Status)

	_, err = svc.SubmitAddress(ctx, user.ID, AddressSubmission{City: "Pointe-Noire"})
	assert.ErrorIs(t, err, ErrRejected)

	_, err = svc.ConfirmPhone(ctx, user.ID)
	assert.ErrorIs(t, err, ErrPhoneMissing)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.Verification{}, stored.Verification)
}

func TestUnknownUser(t *testing.T) {
	svc := NewService(identity.NewMemoryRepository(), nil, nil)
	_, err := svc.ConfirmEmail(context.Background(), "missing")
	assert.ErrorIs(t, err, identity.ErrUserNotFound)
}
