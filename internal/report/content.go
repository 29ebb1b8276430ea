package report

import (
	"github.com/mithrel/ideaval/internal/render"
	"github.com/mithrel/ideaval/pkg/api"
)

// Content is the derived body of one section.
type Content struct {
	Section  SectionID
	Title    string
	Body     string
	Category render.Category
}

// RecommendationBody joins the bolded recommendation label with the free
// form advice, separated by a blank line.
func RecommendationBody(r api.ValidationResult) string {
	return "**Recommendation:** " + r.AdvisorRecommendations + "\n\n" + r.Advice
}

// ContentFor derives the section body from r. Unknown ids fall back to the
// idea section.
func ContentFor(r api.ValidationResult, id SectionID) Content {
	sec, ok := Lookup(id)
	if !ok {
		sec, _ = Lookup(DefaultSection)
	}
	c := Content{Section: sec.ID, Title: sec.Title, Category: sec.Category}
	switch sec.ID {
	case SectionMarket:
		c.Body = r.MarketAnalysis
	case SectionCompetition:
		c.Body = r.CompetitionAnalysis
	case SectionRisk:
		c.Body = r.RiskAssessment
	case SectionSWOT:
		c.Body = r.SwotAnalysis
	case SectionRecommendations:
		c.Body = RecommendationBody(r)
	default:
		c.Body = r.IdeaAnalysis
	}
	return c
}

// All derives every section in navigation order.
func All(r api.ValidationResult) []Content {
	out := make([]Content, 0, len(sections))
	for _, s := range sections {
		out = append(out, ContentFor(r, s.ID))
	}
	return out
}
