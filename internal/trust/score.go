package trust

import "math"

// TrustScore is a bounded 0-100 summary of a user's trustworthiness.
type TrustScore int

const (
	MinScore TrustScore = 0
	MaxScore TrustScore = 100
)

// Component weights. Each component saturates at its cap.
const (
	pointsPerVerification = 10.0
	reputationCap         = 30.0
	pointsPerTransaction  = 2.0
	volumeCap             = 20.0
	daysPerTenurePoint    = 36.5
	tenureCap             = 10.0
)

// ScoreBreakdown holds the weighted components before rounding.
type ScoreBreakdown struct {
	Verification float64 `json:"verification"`
	Reputation   float64 `json:"reputation"`
	Volume       float64 `json:"volume"`
	Tenure       float64 `json:"tenure"`
}

// Total is the unrounded sum of the components.
func (b ScoreBreakdown) Total() float64 {
	return b.Verification + b.Reputation + b.Volume + b.Tenure
}

// Breakdown computes the four score components for the clamped signals.
func Breakdown(signals UserSignals) ScoreBreakdown {
	s := signals.Normalized()

	var reputation float64
	if s.ReviewCount > 0 {
		reputation = reputationCap * (s.AverageRating / maxRating)
	}

	return ScoreBreakdown{
		Verification: pointsPerVerification * float64(s.verificationCount()),
		Reputation:   reputation,
		Volume:       math.Min(float64(s.CompletedTransactions)*pointsPerTransaction, volumeCap),
		Tenure:       math.Min(float64(s.AccountAgeDays)/daysPerTenurePoint, tenureCap),
	}
}

// ComputeScore reduces signals to a TrustScore. It never fails; malformed
// inputs are clamped before use.
func ComputeScore(signals UserSignals) TrustScore {
	return scoreFromTotal(Breakdown(signals).Total())
}

func scoreFromTotal(total float64) TrustScore {
	rounded := math.Round(total)
	switch {
	case math.IsNaN(rounded) || rounded < float64(MinScore):
		return MinScore
	case rounded > float64(MaxScore):
		return MaxScore
	}
	return TrustScore(rounded)
}

// Clamp forces a caller supplied score into [0,100].
func (s TrustScore) Clamp() TrustScore {
	return min(max(s, MinScore), MaxScore)
}
