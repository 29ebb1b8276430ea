// Package report defines the fixed report sections and derives the content
// shown for each of them from a ValidationResult.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mithrel/ideaval/internal/render"
	"github.com/mithrel/ideaval/internal/util"
)

// SectionID identifies one of the six report sections.
type SectionID string

const (
	SectionIdea            SectionID = "idea"
	SectionMarket          SectionID = "market"
	SectionCompetition     SectionID = "competition"
	SectionRisk            SectionID = "risk"
	SectionSWOT            SectionID = "swot"
	SectionRecommendations SectionID = "recommendations"
)

// DefaultSection is shown when nothing else was selected.
const DefaultSection = SectionIdea

var ErrUnknownSection = errors.New("unknown section")

// Section carries the fixed presentation attributes of a SectionID.
type Section struct {
	ID       SectionID
	Label    string
	Title    string
	Icon     string
	Accent   string
	Category render.Category
}

var sections = []Section{
	{ID: SectionIdea, Label: "Idea Analysis", Title: "Idea Analysis", Icon: "💡", Accent: "#3B82F6", Category: render.CategoryDefault},
	{ID: SectionMarket, Label: "Market Analysis", Title: "Market Analysis", Icon: "📊", Accent: "#10B981", Category: render.CategoryMarket},
	{ID: SectionCompetition, Label: "Competition", Title: "Competition Analysis", Icon: "👥", Accent: "#A855F7", Category: render.CategoryCompetition},
	{ID: SectionRisk, Label: "Risk Assessment", Title: "Risk Assessment", Icon: "⚠", Accent: "#F97316", Category: render.CategoryRisk},
	{ID: SectionSWOT, Label: "SWOT Analysis", Title: "SWOT Analysis", Icon: "▦", Accent: "#EC4899", Category: render.CategoryDefault},
	{ID: SectionRecommendations, Label: "Recommendations", Title: "Advisor Recommendations", Icon: "📄", Accent: "#06B6D4", Category: render.CategoryDefault},
}

// Sections returns the navigation order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// Lookup returns the attributes for id.
func Lookup(id SectionID) (Section, bool) {
	for _, s := range sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Index returns the navigation position of id, or -1.
func Index(id SectionID) int {
	for i, s := range sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Valid reports whether id is one of the six sections.
func (id SectionID) Valid() bool { return Index(id) >= 0 }

func (id SectionID) String() string { return string(id) }

// ParseSection accepts an exact section id, ignoring case and surrounding space.
func ParseSection(s string) (SectionID, error) {
	id := SectionID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return id, nil
}

// ResolveSection parses s exactly, falling back to fuzzy matching against
// ids and labels so "mkt" or "recs" still find a section.
func ResolveSection(s string) (SectionID, error) {
	if id, err := ParseSection(s); err == nil {
		return id, nil
	}
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	candidates := make([]string, 0, len(sections)*2)
	owner := make(map[string]SectionID, len(sections)*2)
	for _, sec := range sections {
		label := strings.ToLower(sec.Label)
		candidates = append(candidates, string(sec.ID), label)
		owner[string(sec.ID)] = sec.ID
		owner[label] = sec.ID
	}
	best := util.ScoreCompletions(in, candidates, 1)
	if len(best) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return owner[best[0]], nil
}

// SectionIDs lists ids in navigation order, for completion.
func SectionIDs() []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, string(s.ID))
	}
	return out
}
