package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tone is the semantic class assigned to list items and callouts.
type Tone string

const (
	ToneDefault Tone = "default"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
	ToneInfo    Tone = "info"
)

// Badge is the severity class of a bold span.
type Badge string

const (
	BadgeNeutral Badge = "neutral"
	BadgeRed     Badge = "red"
	BadgeAmber   Badge = "amber"
	BadgeGreen   Badge = "green"
	BadgeEmerald Badge = "emerald"
)

// ToneRule assigns Tone when any keyword occurs in the text.
type ToneRule struct {
	Tone     Tone
	Keywords []string
}

// IconRule assigns Icon when any keyword occurs in the text.
type IconRule struct {
	Icon     string
	Keywords []string
}

// BadgeRule assigns Badge when any keyword occurs in the text.
type BadgeRule struct {
	Badge    Badge
	Keywords []string
}

// QuoteRule assigns a callout tone and icon when any keyword occurs.
type QuoteRule struct {
	Tone     Tone
	Icon     string
	Keywords []string
}

// Rule tables. Evaluation is ordered and the first matching rule wins.
// Keywords are compared as lowercase substrings of lowercased text.
var (
	ListTones = []ToneRule{
		{Tone: ToneWarning, Keywords: []string{"risk", "challenge", "issue"}},
		{Tone: ToneSuccess, Keywords: []string{"opportunity", "advantage", "growth"}},
		{Tone: ToneError, Keywords: []string{"threat", "critical", "severe"}},
	}

	ListIcons = []IconRule{
		{Icon: "🚀", Keywords: []string{"feature"}},
		{Icon: "🏆", Keywords: []string{"strength", "advantage"}},
		{Icon: "⚠", Keywords: []string{"weakness"}},
		{Icon: "💡", Keywords: []string{"opportunity"}},
		{Icon: "🔥", Keywords: []string{"threat", "challenge"}},
		{Icon: "📊", Keywords: []string{"market"}},
		{Icon: "🎯", Keywords: []string{"target"}},
		{Icon: "👥", Keywords: []string{"competitor"}},
		{Icon: "📈", Keywords: []string{"benefit"}},
	}
	DefaultListIcon = "›"

	Badges = []BadgeRule{
		{Badge: BadgeRed, Keywords: []string{"critical", "high"}},
		{Badge: BadgeAmber, Keywords: []string{"medium"}},
		{Badge: BadgeGreen, Keywords: []string{"low"}},
		{Badge: BadgeEmerald, Keywords: []string{"opportunity"}},
	}

	QuoteTones = []QuoteRule{
		{Tone: ToneError, Icon: "🛡", Keywords: []string{"critical", "danger"}},
		{Tone: ToneWarning, Icon: "⚠", Keywords: []string{"risk", "warning"}},
	}
	DefaultQuote = QuoteRule{Tone: ToneInfo, Icon: "💡"}
)

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// ListTone classifies list item text.
func ListTone(text string) Tone {
	t := strings.ToLower(text)
	for _, r := range ListTones {
		if containsAny(t, r.Keywords) {
			return r.Tone
		}
	}
	return ToneDefault
}

// ListIcon picks the glyph shown in front of a list item.
func ListIcon(text string) string {
	t := strings.ToLower(text)
	for _, r := range ListIcons {
		if containsAny(t, r.Keywords) {
			return r.Icon
		}
	}
	return DefaultListIcon
}

// BadgeFor classifies bold text.
func BadgeFor(text string) Badge {
	t := strings.ToLower(text)
	for _, r := range Badges {
		if containsAny(t, r.Keywords) {
			return r.Badge
		}
	}
	return BadgeNeutral
}

// QuoteStyle returns the callout tone and icon for block quote text.
func QuoteStyle(text string) (Tone, string) {
	t := strings.ToLower(text)
	for _, r := range QuoteTones {
		if containsAny(t, r.Keywords) {
			return r.Tone, r.Icon
		}
	}
	return DefaultQuote.Tone, DefaultQuote.Icon
}

type toneColors struct {
	fg, bg lipgloss.AdaptiveColor
}

var tones = map[Tone]toneColors{
	ToneSuccess: {fg: ac("#16A34A", "#4ADE80"), bg: ac("#F0FDF4", "#14532D")},
	ToneWarning: {fg: ac("#D97706", "#FBBF24"), bg: ac("#FFFBEB", "#78350F")},
	ToneError:   {fg: ac("#DC2626", "#F87171"), bg: ac("#FEF2F2", "#7F1D1D")},
	ToneInfo:    {fg: ac("#2563EB", "#60A5FA"), bg: ac("#EFF6FF", "#1E3A8A")},
}

var badges = map[Badge]toneColors{
	BadgeRed:     {fg: ac("#B91C1C", "#FEE2E2"), bg: ac("#FEE2E2", "#991B1B")},
	BadgeAmber:   {fg: ac("#B45309", "#FEF3C7"), bg: ac("#FEF3C7", "#92400E")},
	BadgeGreen:   {fg: ac("#15803D", "#DCFCE7"), bg: ac("#DCFCE7", "#166534")},
	BadgeEmerald: {fg: ac("#047857", "#D1FAE5"), bg: ac("#D1FAE5", "#065F46")},
	BadgeNeutral: {fg: ac("#1F2937", "#F3F4F6"), bg: ac("#F3F4F6", "#374151")},
}
