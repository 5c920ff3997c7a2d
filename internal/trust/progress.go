package trust

import (
	"math"
	"sort"
)

// Requirement is an unmet criterion of the next tier.
type Requirement struct {
	Key         string  `json:"key"`
	Description string  `json:"description"`
	Current     float64 `json:"current"`
	Required    float64 `json:"required"`
}

// Progress reports how close a user is to the next membership tier.
type Progress struct {
	NextLevel MembershipLevel `json:"next_level,omitempty"`
	Percent   float64         `json:"percent"`
	Unmet     []Requirement   `json:"unmet_requirements"`
}

// HasNext reports whether a higher tier exists.
func (p Progress) HasNext() bool {
	return p.NextLevel != ""
}

// EstimateProgress evaluates the next tier's criteria for the given user.
// Unmet requirements come back closest-to-satisfied first.
func EstimateProgress(signals UserSignals, score TrustScore, current MembershipLevel) Progress {
	next, ok := current.Next()
	if !ok {
		return Progress{Percent: 100, Unmet: []Requirement{}}
	}
	r, ok := ruleFor(membershipRules, next)
	if !ok || len(r.criteria) == 0 {
		return Progress{NextLevel: next, Percent: 100, Unmet: []Requirement{}}
	}

	f := newFacts(signals, score)
	type pending struct {
		req       Requirement
		closeness float64
	}
	var (
		met   int
		unmet []pending
	)
	for _, c := range r.criteria {
		if c.met(f) {
			met++
			continue
		}
		unmet = append(unmet, pending{
			req: Requirement{
				Key:         c.Key,
				Description: c.description(f),
				Current:     c.current(f),
				Required:    c.Required,
			},
			closeness: c.closeness(f),
		})
	}

	sort.SliceStable(unmet, func(i, j int) bool {
		return unmet[i].closeness > unmet[j].closeness
	})

	reqs := make([]Requirement, 0, len(unmet))
	for _, p := range unmet {
		reqs = append(reqs, p.req)
	}

	return Progress{
		NextLevel: next,
		Percent:   math.Round(100 * float64(met) / float64(len(r.criteria))),
		Unmet:     reqs,
	}
}
