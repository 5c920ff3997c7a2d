package profile

import (
	"context"
	"log/slog"
	"time"

	"github.com/listinghub/listinghub/internal/identity"
	"github.com/listinghub/listinghub/internal/logging"
	"github.com/listinghub/listinghub/internal/metrics"
	"github.com/listinghub/listinghub/internal/trust"
)

// Service builds public trust profiles.
type Service struct {
	loader     *Loader
	classifier trust.Classifier
	catalog    Catalog
	cache      *Cache
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// Options carries the optional collaborators of a Service.
type Options struct {
	Cache   *Cache
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

// NewService wires a profile service. Zero options mean no cache, no
// metrics, a discarding logger and the wall clock.
func NewService(loader *Loader, classifier trust.Classifier, catalog Catalog, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		loader:     loader,
		classifier: classifier,
		catalog:    catalog,
		cache:      opts.Cache,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		now:        opts.Now,
	}
}

// UserSummary is the public part of the account.
type UserSummary struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	UserType    trust.UserType `json:"user_type"`
	Verified    bool           `json:"verified"`
	MemberSince time.Time      `json:"member_since"`
}

// MembershipView is a membership tier with its presentation.
type MembershipView struct {
	Level         trust.MembershipLevel `json:"level"`
	PremiumActive bool                  `json:"premium_active"`
	Descriptor
}

// ExperienceView is an experience tier with its presentation.
type ExperienceView struct {
	Level trust.ExperienceLevel `json:"level"`
	Descriptor
}

// Profile is the response body of the profile endpoint.
type Profile struct {
	User       UserSummary          `json:"user"`
	Score      trust.TrustScore     `json:"trust_score"`
	Breakdown  trust.ScoreBreakdown `json:"score_breakdown"`
	Membership MembershipView       `json:"membership"`
	Experience ExperienceView       `json:"experience"`
	Progress   trust.Progress       `json:"progress"`
	Cached     bool                 `json:"cached"`
}

// Profile loads the user's signals, classifies them and decorates the
// result with presentation descriptors.
func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	start := time.Now()
	user, signals, err := s.loader.Load(ctx, userID)
	if err != nil {
		return Profile{}, err
	}

	now := s.now()
	eval, cached := s.evaluate(ctx, signals, now)
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	s.metrics.IncrementEvaluation(string(eval.Membership), string(eval.Experience))

	s.logger.Debug("profile evaluated",
		slog.String("user_id", user.ID),
		slog.Int("trust_score", int(eval.Score)),
		slog.String("membership", string(eval.Membership)),
		slog.String("experience", string(eval.Experience)),
		slog.Bool("cached", cached),
	)

	return s.build(user, eval, cached), nil
}

func (s *Service) evaluate(ctx context.Context, signals trust.UserSignals, now time.Time) (trust.Evaluation, bool) {
	key, err := Key(signals, s.classifier.Mode(), signals.PremiumActive(now))
	if err != nil || s.cache == nil {
		return s.classifier.Evaluate(signals, now), false
	}

	eval, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.IncrementCacheLookup("error")
		s.logger.Warn("profile cache lookup failed", slog.Any("error", err))
	case ok:
		s.metrics.IncrementCacheLookup("hit")
		return eval, true
	default:
		s.metrics.IncrementCacheLookup("miss")
	}

	eval = s.classifier.Evaluate(signals, now)
	if err := s.cache.Set(ctx, key, eval); err != nil {
		s.logger.Warn("profile cache store failed", slog.Any("error", err))
	}
	return eval, false
}

func (s *Service) build(user identity.User, eval trust.Evaluation, cached bool) Profile {
	return Profile{
		User: UserSummary{
			ID:          user.ID,
			DisplayName: user.DisplayName,
			UserType:    user.Type,
			Verified:    user.Verification.Verified,
			MemberSince: user.CreatedAt,
		},
		Score:     eval.Score,
		Breakdown: eval.Breakdown,
		Membership: MembershipView{
			Level:         eval.Membership,
			PremiumActive: eval.PremiumActive,
			Descriptor:    s.catalog.Membership(eval.Membership),
		},
		Experience: ExperienceView{
			Level:      eval.Experience,
			Descriptor: s.catalog.Experience(eval.Experience),
		},
		Progress: eval.Progress,
		Cached:   cached,
	}
}

// Tiers lists the membership tiers and what each requires.
func (s *Service) Tiers() []Tier {
	return s.catalog.Tiers()
}
