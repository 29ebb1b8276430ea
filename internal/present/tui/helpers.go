package tui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// blankLines returns n empty lines joined the way lipgloss joins blocks.
func blankLines(n int) string {
	if n <= 1 {
		return ""
	}
	return strings.Repeat("\n", n-1)
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}
