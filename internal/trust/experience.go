package trust

// ExperienceLevel measures tenure and activity, independent of membership.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
	ExperienceExpert       ExperienceLevel = "expert"
)

var experienceOrder = []ExperienceLevel{ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced, ExperienceExpert}

// ExperienceLevels lists every experience tier from lowest to highest.
func ExperienceLevels() []ExperienceLevel {
	return append([]ExperienceLevel(nil), experienceOrder...)
}

// Rank is the tier's position, or -1 if unknown.
func (l ExperienceLevel) Rank() int {
	for i, candidate := range experienceOrder {
		if candidate == l {
			return i
		}
	}
	return -1
}

var experienceRules = []rule[ExperienceLevel]{
	{level: ExperienceExpert, criteria: []Criterion{
		minTransactions(25), minAccountAge(180), minRating(4.5), minScore(70),
	}},
	{level: ExperienceAdvanced, criteria: []Criterion{
		minTransactions(10), minAccountAge(90), minRating(4.0),
	}},
	{level: ExperienceIntermediate, criteria: []Criterion{
		minTransactions(3), minAccountAge(30),
	}},
}

// ClassifyExperience assigns an experience tier. The score is taken as
// computed by ComputeScore rather than recomputed here.
func ClassifyExperience(signals UserSignals, score TrustScore) ExperienceLevel {
	return firstMatch(experienceRules, newFacts(signals, score), ExperienceBeginner)
}
