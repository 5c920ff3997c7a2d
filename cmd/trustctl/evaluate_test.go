package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listinghub/listinghub/internal/trust"
)

var fixtureTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestEvaluateSampleFixtures(t *testing.T) {
	fixtures, err := loadFixtures("testdata/fixtures.yaml")
	require.NoError(t, err)

	results := evaluate(fixtures, trust.NewClassifier(trust.OverrideReplace), fixtureTime)
	got := map[string]trust.Evaluation{}
	for _, r := range results {
		got[r.Name] = r.Evaluation
	}

	tests := []struct {
		name       string
		score      trust.TrustScore
		membership trust.MembershipLevel
		experience trust.ExperienceLevel
	}{
		{name: "new-user", score: 10, membership: trust.MembershipBasic, experience: trust.ExperienceBeginner},
		{name: "mid-tier", score: 67, membership: trust.MembershipPremium, experience: trust.ExperienceIntermediate},
		{name: "expert-agent", score: 94, membership: trust.MembershipVIP, experience: trust.ExperienceExpert},
		{name: "enterprise-company", score: 99, membership: trust.MembershipEnterprise, experience: trust.ExperienceExpert},
		{name: "premium-buyer", score: 10, membership: trust.MembershipPremium, experience: trust.ExperienceBeginner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := got[tt.name]
			require.True(t, ok)
			assert.Equal(t, tt.score, e.Score)
			assert.Equal(t, tt.membership, e.Membership)
			assert.Equal(t, tt.experience, e.Experience)
		})
	}
	assert.True(t, got["premium-buyer"].PremiumActive)
}

func TestEvaluateAfterPremiumExpiry(t *testing.T) {
	fixtures, err := loadFixtures("testdata/fixtures.yaml")
	require.NoError(t, err)

	later := time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, r := range evaluate(fixtures, trust.NewClassifier(trust.OverrideReplace), later) {
		if r.Name == "premium-buyer" {
			assert.Equal(t, trust.MembershipBasic, r.Evaluation.Membership)
			assert.False(t, r.Evaluation.PremiumActive)
		}
	}
}

func TestRenderFormats(t *testing.T) {
	fixtures, err := loadFixtures("testdata/fixtures.yaml")
	require.NoError(t, err)
	results := evaluate(fixtures, trust.NewClassifier(trust.OverrideFloor), fixtureTime)

	var jsonOut bytes.Buffer
	require.NoError(t, render(&jsonOut, "json", results))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &decoded))
	assert.Len(t, decoded, len(fixtures))

	var textOut bytes.Buffer
	require.NoError(t, render(&textOut, "text", results))
	assert.Contains(t, textOut.String(), "enterprise-company")
	assert.Contains(t, textOut.String(), "premium (override)")
	assert.Contains(t, textOut.String(), "needs ≥3 completed transactions, currently 0")

	assert.Error(t, render(&textOut, "xml", results))
}

func TestLoadFixturesErrors(t *testing.T) {
	_, err := loadFixtures("testdata/missing.yaml")
	assert.Error(t, err)
}
