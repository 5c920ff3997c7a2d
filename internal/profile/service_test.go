package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listinghub/listinghub/internal/identity"
	"github.com/listinghub/listinghub/internal/metrics"
	"github.com/listinghub/listinghub/internal/reviews"
	"github.com/listinghub/listinghub/internal/trust"
)

var (
	registeredAt = time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)
	evaluatedAt  = registeredAt.Add(60 * 24 * time.Hour)
)

type stubDeals struct {
	count int
	err   error
}

func (s stubDeals) CountCompleted(context.Context, string) (int, error) { return s.count, s.err }

type stubReviews reviews.Summary

func (s stubReviews) Summary(context.Context, string) (reviews.Summary, error) {
	return reviews.Summary(s), nil
}

type world struct {
	users *identity.Service
	repo  identity.Repository
	user  identity.User
}

func newWorld(t *testing.T) world {
	t.Helper()
	repo := identity.NewMemoryRepository()
	users := identity.NewServiceWithClock(repo, func() time.Time { return registeredAt })
	user, err := users.Register(context.Background(), identity.RegisterInput{
		Email:       "seller@listinghub.test",
		Password:    "correct-horse",
		DisplayName: "Seller",
	})
	require.NoError(t, err)
	return world{users: users, repo: repo, user: user}
}

func (w world) verify(t *testing.T) {
	t.Helper()
	v := identity.Verification{Email: true, Phone: true, IdentityDocument: true}.WithAggregate()
	require.NoError(t, w.repo.UpdateVerification(context.Background(), w.user.ID, v))
}

func (w world) service(deals DealCounter, rv ReviewSummarizer, opts Options) *Service {
	opts.Now = func() time.Time { return evaluatedAt }
	loader := NewLoaderWithClock(w.users, deals, rv, opts.Now)
	return NewService(loader, trust.NewClassifier(trust.OverrideReplace), DefaultCatalog(), opts)
}

func TestProfileClassifiesLoadedSignals(t *testing.T) {
	w := newWorld(t)
	w.verify(t)
	svc := w.service(stubDeals{count: 5}, stubReviews{Average: 4.2, Count: 8}, Options{})

	p, err := svc.Profile(context.Background(), w.user.ID)
	require.NoError(t, err)

	assert.Equal(t, trust.TrustScore(67), p.Score)
	assert.Equal(t, trust.MembershipPremium, p.Membership.Level)
	assert.Equal(t, "Premium", p.Membership.Label)
	assert.False(t, p.Membership.PremiumActive)
	assert.Equal(t, trust.ExperienceIntermediate, p.Experience.Level)
	assert.Equal(t, trust.MembershipVIP, p.Progress.NextLevel)
	assert.True(t, p.User.Verified)
	assert.Equal(t, "Seller", p.User.DisplayName)
	assert.False(t, p.Cached)
}

func TestProfilePremiumOverride(t *testing.T) {
	w := newWorld(t)
	until := evaluatedAt.Add(24 * time.Hour)
	require.NoError(t, w.repo.UpdatePremium(context.Background(), w.user.ID, &until))

	svc := w.service(stubDeals{}, stubReviews{}, Options{})
	p, err := svc.Profile(context.Background(), w.user.ID)
	require.NoError(t, err)

	assert.Equal(t, trust.MembershipPremium, p.Membership.Level)
	assert.True(t, p.Membership.PremiumActive)
	assert.Equal(t, trust.ExperienceBeginner, p.Experience.Level)
}

func TestProfileCachesEvaluations(t *testing.T) {
	w := newWorld(t)
	w.verify(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	m := metrics.New(prometheus.NewRegistry())
	svc := w.service(stubDeals{count: 5}, stubReviews{Average: 4.2, Count: 8}, Options{
		Cache:   NewCache(client, time.Minute),
		Metrics: m,
	})
	ctx := context.Background()

	first, err := svc.Profile(ctx, w.user.ID)
	require.NoError(t, err)
	second, err := svc.Profile(ctx, w.user.ID)
	require.NoError(t, err)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Membership, second.Membership)
	assert.Equal(t, first.Progress.NextLevel, second.Progress.NextLevel)
	assert.Len(t, second.Progress.Unmet, len(first.Progress.Unmet))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("premium", "intermediate")))
}

func TestProfileErrors(t *testing.T) {
	w := newWorld(t)
	boom := errors.New("deals unavailable")

	_, err := w.service(stubDeals{}, stubReviews{}, Options{}).Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, identity.ErrUserNotFound)

	_, err = w.service(stubDeals{err: boom}, stubReviews{}, Options{}).Profile(context.Background(), w.user.ID)
	assert.ErrorIs(t, err, boom)
}

func TestCacheKeyDependsOnModeAndPremiumState(t *testing.T) {
	signals := trust.UserSignals{EmailVerified: true, CompletedTransactions: 4}

	base, err := Key(signals, trust.OverrideReplace, false)
	require.NoError(t, err)
	same, err := Key(signals, trust.OverrideReplace, false)
	require.NoError(t, err)
	floor, err := Key(signals, trust.OverrideFloor, false)
	require.NoError(t, err)
	premium, err := Key(signals, trust.OverrideReplace, true)
	require.NoError(t, err)

	assert.Equal(t, base, same)
	assert.NotEqual(t, base, floor)
	assert.NotEqual(t, base, premium)
}

func TestCatalogTiers(t *testing.T) {
	tiers := DefaultCatalog().Tiers()
	require.Len(t, tiers, 4)
	assert.Equal(t, trust.MembershipBasic, tiers[0].Level)
	assert.Empty(t, tiers[0].Criteria)
	assert.Equal(t, trust.MembershipEnterprise, tiers[3].Level)
	assert.Equal(t, "Enterprise", tiers[3].Descriptor.Label)
	assert.NotEmpty(t, tiers[3].Criteria)

	assert.Equal(t, "Basic", DefaultCatalog().Membership("unknown").Label)
	assert.Equal(t, "Beginner", DefaultCatalog().Experience("unknown").Label)
}
