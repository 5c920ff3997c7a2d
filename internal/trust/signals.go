// Package trust scores users and assigns membership and experience tiers
// from a snapshot of their signals. Every function is pure: no I/O, no
// clock reads, no shared state.
package trust

import (
	"math"
	"strings"
	"time"
)

// UserType distinguishes private sellers from professional accounts.
type UserType string

const (
	UserTypeIndividual UserType = "individual"
	UserTypeAgent      UserType = "agent"
	UserTypeCompany    UserType = "company"
)

// ParseUserType maps free-form input to a UserType, defaulting to individual.
func ParseUserType(v string) UserType {
	switch UserType(strings.ToLower(strings.TrimSpace(v))) {
	case UserTypeAgent:
		return UserTypeAgent
	case UserTypeCompany:
		return UserTypeCompany
	default:
		return UserTypeIndividual
	}
}

// Professional reports whether the account is an agent or a company.
func (t UserType) Professional() bool {
	return t == UserTypeAgent || t == UserTypeCompany
}

// UserSignals is a read-only snapshot of everything the engine knows about a user.
type UserSignals struct {
	EmailVerified            bool       `json:"email_verified" yaml:"email_verified"`
	PhoneVerified            bool       `json:"phone_verified" yaml:"phone_verified"`
	IdentityDocumentVerified bool       `json:"identity_document_verified" yaml:"identity_document_verified"`
	AddressProofVerified     bool       `json:"address_proof_verified" yaml:"address_proof_verified"`
	CompletedTransactions    int        `json:"completed_transactions" yaml:"completed_transactions"`
	AverageRating            float64    `json:"average_rating" yaml:"average_rating"`
	ReviewCount              int        `json:"review_count" yaml:"review_count"`
	AccountAgeDays           int        `json:"account_age_days" yaml:"account_age_days"`
	UserType                 UserType   `json:"user_type" yaml:"user_type"`
	PremiumUntil             *time.Time `json:"premium_until,omitempty" yaml:"premium_until,omitempty"`
	Verified                 bool       `json:"verified" yaml:"verified"`
}

const maxRating = 5.0

// Normalized returns a copy with every numeric field forced into its domain.
func (s UserSignals) Normalized() UserSignals {
	out := s
	out.CompletedTransactions = max(out.CompletedTransactions, 0)
	out.ReviewCount = max(out.ReviewCount, 0)
	out.AccountAgeDays = max(out.AccountAgeDays, 0)
	out.AverageRating = clampFloat(out.AverageRating, 0, maxRating)
	out.UserType = ParseUserType(string(out.UserType))
	if out.PremiumUntil != nil && out.PremiumUntil.IsZero() {
		out.PremiumUntil = nil
	}
	return out
}

// EffectiveRating is the rating the tier rules compare against. Without
// reviews there is no reputation evidence, so it is zero.
func (s UserSignals) EffectiveRating() float64 {
	n := s.Normalized()
	if n.ReviewCount == 0 {
		return 0
	}
	return n.AverageRating
}

// PremiumActive reports whether a purchased premium period covers now.
func (s UserSignals) PremiumActive(now time.Time) bool {
	n := s.Normalized()
	return n.PremiumUntil != nil && n.PremiumUntil.After(now)
}

func (s UserSignals) verificationCount() int {
	n := 0
	for _, ok := range []bool{s.EmailVerified, s.PhoneVerified, s.IdentityDocumentVerified, s.AddressProofVerified} {
		if ok {
			n++
		}
	}
	return n
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
