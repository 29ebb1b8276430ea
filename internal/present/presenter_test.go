package present

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/ideaval/internal/report"
)

func TestParseModeNames(t *testing.T) {
	for _, name := range ModeNames() {
		m, ok := ParseMode(name)
		require.True(t, ok, name)
		assert.Equal(t, name, m.String())
	}
	m, ok := ParseMode(" Styled ")
	assert.True(t, ok)
	assert.Equal(t, ModeStyled, m)

	_, ok = ParseMode("html")
	assert.False(t, ok)
}

func TestRenderResultStyledUsesSection(t *testing.T) {
	var buf bytes.Buffer
	res := report.Example()
	err := RenderResult(context.Background(), &buf, res, Options{Mode: ModeStyled, Section: report.SectionRisk, Width: 72})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "⚠ Risk Assessment")
	assert.NotContains(t, out, "Market Analysis")
}
