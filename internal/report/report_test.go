package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/ideaval/internal/render"
	"github.com/mithrel/ideaval/pkg/api"
)

func sampleResult() api.ValidationResult {
	return api.ValidationResult{
		StartupIdea:            "Drone coffee delivery",
		IdeaAnalysis:           "idea body",
		SwotAnalysis:           "swot body",
		MarketAnalysis:         "market body",
		CompetitionAnalysis:    "competition body",
		RiskAssessment:         "risk body",
		AdvisorRecommendations: "Go",
		Advice:                 "Start small.",
		Messages:               []string{},
	}
}

func TestContentForEachSection(t *testing.T) {
	r := sampleResult()
	tests := []struct {
		id       SectionID
		title    string
		body     string
		category render.Category
	}{
		{SectionIdea, "Idea Analysis", "idea body", render.CategoryDefault},
		{SectionMarket, "Market Analysis", "market body", render.CategoryMarket},
		{SectionCompetition, "Competition Analysis", "competition body", render.CategoryCompetition},
		{SectionRisk, "Risk Assessment", "risk body", render.CategoryRisk},
		{SectionSWOT, "SWOT Analysis", "swot body", render.CategoryDefault},
		{SectionRecommendations, "Advisor Recommendations", "**Recommendation:** Go\n\nStart small.", render.CategoryDefault},
	}
	for _, tc := range tests {
		t.Run(string(tc.id), func(t *testing.T) {
			c := ContentFor(r, tc.id)
			assert.Equal(t, tc.id, c.Section)
			assert.Equal(t, tc.title, c.Title)
			assert.Equal(t, tc.body, c.Body)
			assert.Equal(t, tc.category, c.Category)
		})
	}
}

func TestContentForUnknownFallsBackToIdea(t *testing.T) {
	c := ContentFor(sampleResult(), SectionID("nope"))
	assert.Equal(t, SectionIdea, c.Section)
	assert.Equal(t, "idea body", c.Body)
}

func TestAllKeepsNavigationOrder(t *testing.T) {
	all := All(sampleResult())
	require.Len(t, all, 6)
	for i, s := range Sections() {
		assert.Equal(t, s.ID, all[i].Section)
	}
}

func TestParseSection(t *testing.T) {
	id, err := ParseSection(" Market ")
	require.NoError(t, err)
	assert.Equal(t, SectionMarket, id)

	_, err = ParseSection("mkt")
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestResolveSection(t *testing.T) {
	cases := map[string]SectionID{
		"risk":            SectionRisk,
		"mkt":             SectionMarket,
		"recs":            SectionRecommendations,
		"swot analysis":   SectionSWOT,
		"COMPETITION":     SectionCompetition,
		"Idea Analysis":   SectionIdea,
	}
	for in, want := range cases {
		got, err := ResolveSection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ResolveSection("")
	assert.ErrorIs(t, err, ErrUnknownSection)
	_, err = ResolveSection("zzzz")
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestSectionsIsACopy(t *testing.T) {
	s := Sections()
	s[0].Label = "changed"
	sec, ok := Lookup(SectionIdea)
	require.True(t, ok)
	assert.Equal(t, "Idea Analysis", sec.Label)
	assert.Equal(t, -1, Index("missing"))
	assert.Equal(t, []string{"idea", "market", "competition", "risk", "swot", "recommendations"}, SectionIDs())
}

func TestExampleIsComplete(t *testing.T) {
	ex := Example()
	assert.NotEmpty(t, ex.StartupIdea)
	assert.NotEmpty(t, ex.IdeaAnalysis)
	assert.NotEmpty(t, ex.SwotAnalysis)
	assert.Contains(t, ex.MarketAnalysis, "### Customer Segments")
	assert.Contains(t, ex.CompetitionAnalysis, "**Name:** IdeaBuddy")
	assert.Contains(t, ex.RiskAssessment, "### Market Risks")
	assert.Equal(t, "Conditional Go", ex.AdvisorRecommendations)
	assert.Len(t, ex.Messages, 8)

	ex.Messages[0] = "mutated"
	assert.NotEqual(t, "mutated", Example().Messages[0])
}
