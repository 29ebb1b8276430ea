package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mithrel/ideaval/internal/report"
	"github.com/mithrel/ideaval/pkg/api"
)

var headerLine = "id\tcreated\tfallback\tidea\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// WritePlainResult writes the idea, an optional notice and each section's
// raw markdown under its title.
func WritePlainResult(w io.Writer, r api.ValidationResult, notice string, sections []report.Content) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Startup Idea\n%s\n", strings.TrimSpace(r.StartupIdea))
	if notice != "" {
		fmt.Fprintf(&b, "\nNote: %s\n", notice)
	}
	for _, c := range sections {
		fmt.Fprintf(&b, "\n== %s ==\n\n%s\n", c.Title, strings.TrimSpace(c.Body))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WritePlainReports writes one aligned row per report.
func WritePlainReports(w io.Writer, reps []api.Report, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, r := range reps {
		fallback := "no"
		if r.Fallback {
			fallback = "yes"
		}
		line := fmt.Sprintf("%s\t%s\t%s\t%s\n",
			esc(r.ID), r.CreatedAt.Local().Format(time.DateTime), fallback, esc(truncate(r.Idea, 60)))
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}
