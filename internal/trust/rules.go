package trust

import "fmt"

// facts is the clamped view of a snapshot that criteria measure against.
type facts struct {
	transactions float64
	rating       float64
	ageDays      float64
	score        float64
	verified     bool
	userType     UserType
}

func newFacts(signals UserSignals, score TrustScore) facts {
	s := signals.Normalized()
	return facts{
		transactions: float64(s.CompletedTransactions),
		rating:       s.EffectiveRating(),
		ageDays:      float64(s.AccountAgeDays),
		score:        float64(score.Clamp()),
		verified:     s.Verified,
		userType:     s.UserType,
	}
}

// Criterion is one threshold a tier requires. Boolean criteria measure
// 0 or 1 against a requirement of 1.
type Criterion struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Required float64 `json:"required"`

	measure  func(facts) float64
	verb     string
	describe func(Criterion, facts) string
}

func atLeast(key, label, verb string, required float64, measure func(facts) float64) Criterion {
	return Criterion{Key: key, Label: label, Required: required, measure: measure, verb: verb}
}

func flag(key, label string, holds func(facts) bool, describe func(Criterion, facts) string) Criterion {
	return Criterion{
		Key:      key,
		Label:    label,
		Required: 1,
		measure: func(f facts) float64 {
			if holds(f) {
				return 1
			}
			return 0
		},
		describe: describe,
	}
}

func (c Criterion) current(f facts) float64 {
	return c.measure(f)
}

func (c Criterion) met(f facts) bool {
	return c.current(f) >= c.Required
}

// closeness is how far along the criterion is, in [0,1].
func (c Criterion) closeness(f facts) float64 {
	if c.Required <= 0 {
		return 1
	}
	return clampFloat(c.current(f)/c.Required, 0, 1)
}

func (c Criterion) description(f facts) string {
	if c.describe != nil {
		return c.describe(c, f)
	}
	return fmt.Sprintf("needs ≥"+c.verb+" %s, currently "+c.verb, c.Required, c.Label, c.current(f))
}

// Criterion keys shared by the rule tables.
const (
	KeyTransactions = "completed_transactions"
	KeyTrustScore   = "trust_score"
	KeyRating       = "average_rating"
	KeyVerified     = "verified"
	KeyProfessional = "professional_account"
	KeyAccountAge   = "account_age_days"
)

func minTransactions(n float64) Criterion {
	return atLeast(KeyTransactions, "completed transactions", "%.0f", n, func(f facts) float64 { return f.transactions })
}

func minScore(n float64) Criterion {
	return atLeast(KeyTrustScore, "trust score", "%.0f", n, func(f facts) float64 { return f.score })
}

func minRating(n float64) Criterion {
	return atLeast(KeyRating, "average rating", "%.1f", n, func(f facts) float64 { return f.rating })
}

func minAccountAge(days float64) Criterion {
	return atLeast(KeyAccountAge, "days of account age", "%.0f", days, func(f facts) float64 { return f.ageDays })
}

func verifiedIdentity() Criterion {
	return flag(KeyVerified, "verified identity",
		func(f facts) bool { return f.verified },
		func(Criterion, facts) string { return "needs a fully verified identity" })
}

func professionalAccount() Criterion {
	return flag(KeyProfessional, "agent or company account",
		func(f facts) bool { return f.userType.Professional() },
		func(_ Criterion, f facts) string {
			return fmt.Sprintf("needs an agent or company account, currently %s", f.userType)
		})
}

type rule[L ~string] struct {
	level    L
	criteria []Criterion
}

func (r rule[L]) matches(f facts) bool {
	for _, c := range r.criteria {
		if !c.met(f) {
			return false
		}
	}
	return true
}

// firstMatch walks rules top-down and returns the first level whose
// criteria all hold.
func firstMatch[L ~string](rules []rule[L], f facts, fallback L) L {
	for _, r := range rules {
		if r.matches(f) {
			return r.level
		}
	}
	return fallback
}

func ruleFor[L ~string](rules []rule[L], level L) (rule[L], bool) {
	for _, r := range rules {
		if r.level == level {
			return r, true
		}
	}
	return rule[L]{}, false
}
