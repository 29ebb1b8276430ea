package format

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mithrel/ideaval/internal/render"
	"github.com/mithrel/ideaval/internal/report"
	"github.com/mithrel/ideaval/pkg/api"
)

var (
	styledHeading = lipgloss.NewStyle().Bold(true)
	styledNotice  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#FCD34D"})
)

// WriteStyledResult prints each section through the section-aware renderer,
// with the palettes and keyword policies the results view uses.
func WriteStyledResult(w io.Writer, r api.ValidationResult, notice string, sections []report.Content, width int) error {
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	b.WriteString(styledHeading.Render("💡 Startup Idea") + "\n")
	b.WriteString(wordwrap.String(strings.TrimSpace(r.StartupIdea), width) + "\n")
	if notice != "" {
		b.WriteString("\n" + styledNotice.Render(wordwrap.String("⚠ Note: "+notice, width)) + "\n")
	}
	for _, c := range sections {
		heading := styledHeading
		title := c.Title
		if sec, ok := report.Lookup(c.Section); ok {
			heading = heading.Foreground(lipgloss.Color(sec.Accent))
			title = sec.Icon + " " + sec.Title
		}
		b.WriteString("\n" + heading.Render(title) + "\n\n")
		if body := strings.TrimRight(render.Markdown(c.Body, c.Category, width), "\n"); body != "" {
			b.WriteString(body + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
