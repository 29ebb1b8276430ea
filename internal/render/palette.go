package render

import "github.com/charmbracelet/lipgloss"

// Category selects the palette a section's markdown is rendered with.
type Category string

const (
	CategoryDefault     Category = "default"
	CategoryMarket      Category = "market"
	CategoryCompetition Category = "competition"
	CategoryRisk        Category = "risk"
)

// Palette holds the colors a category renders with. Light values follow the
// web palette; dark values keep headers readable on dark terminals.
type Palette struct {
	Header      lipgloss.AdaptiveColor
	Accent      lipgloss.AdaptiveColor
	Background  lipgloss.AdaptiveColor
	Border      lipgloss.AdaptiveColor
	Icon        lipgloss.AdaptiveColor
	TableHeader lipgloss.AdaptiveColor
}

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var palettes = map[Category]Palette{
	CategoryMarket: {
		Header:      ac("#1E3A8A", "#93C5FD"),
		Accent:      ac("#2563EB", "#60A5FA"),
		Background:  ac("#EFF6FF", "#1E3A8A"),
		Border:      ac("#BFDBFE", "#1D4ED8"),
		Icon:        ac("#2563EB", "#60A5FA"),
		TableHeader: ac("#1D4ED8", "#2563EB"),
	},
	CategoryCompetition: {
		Header:      ac("#064E3B", "#6EE7B7"),
		Accent:      ac("#059669", "#34D399"),
		Background:  ac("#ECFDF5", "#064E3B"),
		Border:      ac("#A7F3D0", "#047857"),
		Icon:        ac("#059669", "#34D399"),
		TableHeader: ac("#047857", "#059669"),
	},
	CategoryRisk: {
		Header:      ac("#78350F", "#FCD34D"),
		Accent:      ac("#D97706", "#FBBF24"),
		Background:  ac("#FFFBEB", "#78350F"),
		Border:      ac("#FDE68A", "#B45309"),
		Icon:        ac("#D97706", "#FBBF24"),
		TableHeader: ac("#B45309", "#D97706"),
	},
	CategoryDefault: {
		Header:      ac("#111827", "#F3F4F6"),
		Accent:      ac("#4B5563", "#9CA3AF"),
		Background:  ac("#F9FAFB", "#1F2937"),
		Border:      ac("#E5E7EB", "#374151"),
		Icon:        ac("#4B5563", "#9CA3AF"),
		TableHeader: ac("#1F2937", "#374151"),
	},
}

// PaletteFor returns the palette for c; unknown categories get the default one.
func PaletteFor(c Category) Palette {
	if p, ok := palettes[c]; ok {
		return p
	}
	return palettes[CategoryDefault]
}

// ParseCategory maps a free-form name to a Category, defaulting when unknown.
func ParseCategory(s string) Category {
	switch c := Category(s); c {
	case CategoryMarket, CategoryCompetition, CategoryRisk:
		return c
	}
	return CategoryDefault
}
