package trust

import "time"

// Evaluation is the full classification of one snapshot at one instant.
type Evaluation struct {
	Score         TrustScore      `json:"trust_score"`
	Breakdown     ScoreBreakdown  `json:"score_breakdown"`
	Membership    MembershipLevel `json:"membership"`
	Experience    ExperienceLevel `json:"experience"`
	Progress      Progress        `json:"progress"`
	PremiumActive bool            `json:"premium_active"`
}

// Classifier applies the tier rules with a chosen override mode. The zero
// value uses OverrideReplace. It is safe for concurrent use.
type Classifier struct {
	mode OverrideMode
}

// NewClassifier builds a classifier. Unknown modes fall back to replace.
func NewClassifier(mode OverrideMode) Classifier {
	if mode != OverrideFloor {
		mode = OverrideReplace
	}
	return Classifier{mode: mode}
}

// Mode returns the override mode in effect.
func (c Classifier) Mode() OverrideMode {
	if c.mode == "" {
		return OverrideReplace
	}
	return c.mode
}

// Membership assigns a tier, honouring an active premium override at now.
func (c Classifier) Membership(signals UserSignals, score TrustScore, now time.Time) MembershipLevel {
	if !signals.PremiumActive(now) {
		return qualifiedMembership(signals, score)
	}
	if c.Mode() == OverrideReplace {
		return MembershipPremium
	}
	if qualified := qualifiedMembership(signals, score); qualified.Rank() > MembershipPremium.Rank() {
		return qualified
	}
	return MembershipPremium
}

// Evaluate runs score, membership, experience and progress in order.
func (c Classifier) Evaluate(signals UserSignals, now time.Time) Evaluation {
	breakdown := Breakdown(signals)
	score := scoreFromTotal(breakdown.Total())
	membership := c.Membership(signals, score, now)

	return Evaluation{
		Score:         score,
		Breakdown:     breakdown,
		Membership:    membership,
		Experience:    ClassifyExperience(signals, score),
		Progress:      EstimateProgress(signals, score, membership),
		PremiumActive: signals.PremiumActive(now),
	}
}

// Evaluate classifies signals with the replace override mode.
func Evaluate(signals UserSignals, now time.Time) Evaluation {
	return NewClassifier(OverrideReplace).Evaluate(signals, now)
}
