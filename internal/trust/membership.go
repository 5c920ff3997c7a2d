package trust

import (
	"fmt"
	"strings"
	"time"
)

// MembershipLevel is the privilege tier a user holds.
type MembershipLevel string

const (
	MembershipBasic      MembershipLevel = "basic"
	MembershipPremium    MembershipLevel = "premium"
	MembershipVIP        MembershipLevel = "vip"
	MembershipEnterprise MembershipLevel = "enterprise"
)

var membershipOrder = []MembershipLevel{MembershipBasic, MembershipPremium, MembershipVIP, MembershipEnterprise}

// MembershipLevels lists every tier from least to most privileged.
func MembershipLevels() []MembershipLevel {
	return append([]MembershipLevel(nil), membershipOrder...)
}

// ParseMembershipLevel resolves a tier name case-insensitively.
func ParseMembershipLevel(v string) (MembershipLevel, error) {
	level := MembershipLevel(strings.ToLower(strings.TrimSpace(v)))
	if level.Rank() < 0 {
		return MembershipBasic, fmt.Errorf("unknown membership level %q", v)
	}
	return level, nil
}

// Rank is the tier's position in privilege order, or -1 if unknown.
func (l MembershipLevel) Rank() int {
	for i, candidate := range membershipOrder {
		if candidate == l {
			return i
		}
	}
	return -1
}

// Next returns the tier directly above l. Unknown levels rank as basic.
func (l MembershipLevel) Next() (MembershipLevel, bool) {
	rank := max(l.Rank(), 0)
	if rank+1 >= len(membershipOrder) {
		return "", false
	}
	return membershipOrder[rank+1], true
}

// Elevated membership rules, most privileged first.
var membershipRules = []rule[MembershipLevel]{
	{level: MembershipEnterprise, criteria: []Criterion{
		minTransactions(50), minScore(85), minRating(4.5), verifiedIdentity(), professionalAccount(),
	}},
	{level: MembershipVIP, criteria: []Criterion{
		minTransactions(15), minScore(70), minRating(4.2), verifiedIdentity(),
	}},
	{level: MembershipPremium, criteria: []Criterion{
		minTransactions(3), minScore(40), minRating(3.5), verifiedIdentity(),
	}},
}

// OverrideMode decides how an active premium purchase combines with
// signal-based qualification.
type OverrideMode string

const (
	// OverrideReplace returns exactly premium while the purchase is active,
	// even for users who would otherwise qualify higher.
	OverrideReplace OverrideMode = "replace"
	// OverrideFloor guarantees at least premium and never downgrades.
	OverrideFloor OverrideMode = "floor"
)

// ParseOverrideMode validates a configured mode. Empty means replace.
func ParseOverrideMode(v string) (OverrideMode, error) {
	switch mode := OverrideMode(strings.ToLower(strings.TrimSpace(v))); mode {
	case "", OverrideReplace:
		return OverrideReplace, nil
	case OverrideFloor:
		return OverrideFloor, nil
	default:
		return OverrideReplace, fmt.Errorf("unknown override mode %q", v)
	}
}

// ClassifyMembership assigns a tier using the replace override mode.
func ClassifyMembership(signals UserSignals, score TrustScore, now time.Time) MembershipLevel {
	return NewClassifier(OverrideReplace).Membership(signals, score, now)
}

func qualifiedMembership(signals UserSignals, score TrustScore) MembershipLevel {
	return firstMatch(membershipRules, newFacts(signals, score), MembershipBasic)
}

// TierRequirements lists the criteria of one tier for catalogue pages.
type TierRequirements struct {
	Level    MembershipLevel `json:"level"`
	Criteria []Criterion     `json:"criteria"`
}

// MembershipRequirements exposes the rule table, least privileged first.
// Basic has no criteria.
func MembershipRequirements() []TierRequirements {
	out := []TierRequirements{{Level: MembershipBasic, Criteria: []Criterion{}}}
	for i := len(membershipRules) - 1; i >= 0; i-- {
		r := membershipRules[i]
		out = append(out, TierRequirements{Level: r.level, Criteria: append([]Criterion(nil), r.criteria...)})
	}
	return out
}
