package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/ideaval/internal/report"
	"github.com/mithrel/ideaval/pkg/api"
)

// PrettyOptions configures glamour output.
type PrettyOptions struct {
	Style string
	Width int
}

// ReportMarkdown assembles one markdown document for the given sections.
func ReportMarkdown(r api.ValidationResult, notice string, sections []report.Content) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 💡 Startup Idea\n\n> %s\n\n", strings.ReplaceAll(strings.TrimSpace(r.StartupIdea), "\n", "\n> "))
	if notice != "" {
		fmt.Fprintf(&b, "> ⚠ **Note:** %s\n\n", notice)
	}
	for i, c := range sections {
		icon := ""
		if sec, ok := report.Lookup(c.Section); ok {
			icon = sec.Icon + " "
		}
		if i > 0 {
			b.WriteString("---\n\n")
		}
		fmt.Fprintf(&b, "# %s%s\n\n%s\n\n", icon, c.Title, strings.TrimSpace(c.Body))
	}
	return b.String()
}

// WritePrettyResult renders the report with glamour.
func WritePrettyResult(w io.Writer, r api.ValidationResult, notice string, sections []report.Content, o PrettyOptions) error {
	style := o.Style
	if style == "" {
		style = "dracula"
	}
	width := o.Width
	if width <= 0 {
		width = 80
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := tr.Render(ReportMarkdown(r, notice, sections))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
