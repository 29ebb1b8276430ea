package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEmpty(t *testing.T) {
	doc := Build("  \n ", CategoryRisk)
	assert.Equal(t, CategoryRisk, doc.Category)
	assert.Empty(t, doc.Blocks)
}

func TestBuildHeadingsAndParagraphs(t *testing.T) {
	doc := Build("# Title\n\n## Market Size\n\nThreat level **High** and *soft*.\n", CategoryMarket)
	require.Len(t, doc.Blocks, 3)

	assert.Equal(t, BlockHeading, doc.Blocks[0].Kind)
	assert.Equal(t, 1, doc.Blocks[0].Level)
	assert.Equal(t, "Title", PlainText(doc.Blocks[0].Spans))

	assert.Equal(t, 2, doc.Blocks[1].Level)
	assert.Equal(t, "Market Size", PlainText(doc.Blocks[1].Spans))

	p := doc.Blocks[2]
	assert.Equal(t, BlockParagraph, p.Kind)
	assert.Equal(t, "Threat level High and soft.", PlainText(p.Spans))
	require.Len(t, p.Spans, 5)
	assert.True(t, p.Spans[1].Strong)
	assert.Equal(t, BadgeRed, p.Spans[1].Badge)
	assert.True(t, p.Spans[3].Emphasis)
	assert.Equal(t, Badge(""), p.Spans[3].Badge)
}

func TestBuildListClassification(t *testing.T) {
	md := "- **Risk** of *missing* growth\n- New feature launch\n- plain\n  - nested threat\n"
	doc := Build(md, CategoryDefault)
	require.Len(t, doc.Blocks, 1)
	l := doc.Blocks[0]
	assert.Equal(t, BlockList, l.Kind)
	assert.False(t, l.Ordered)
	require.Len(t, l.Items, 3)

	assert.Equal(t, "Risk of missing growth", l.Items[0].Text)
	assert.Equal(t, ToneWarning, l.Items[0].Tone)
	assert.Equal(t, "›", l.Items[0].Icon)

	assert.Equal(t, ToneDefault, l.Items[1].Tone)
	assert.Equal(t, "🚀", l.Items[1].Icon)

	// nested text counts toward the parent item
	assert.Equal(t, "plain nested threat", l.Items[2].Text)
	assert.Equal(t, ToneError, l.Items[2].Tone)
	require.Len(t, l.Items[2].Blocks, 2)
	assert.Equal(t, BlockList, l.Items[2].Blocks[1].Kind)
}

func TestBuildOrderedAndTaskLists(t *testing.T) {
	doc := Build("3. first\n4. second\n\n- [x] done\n- [ ] todo\n", CategoryDefault)
	require.Len(t, doc.Blocks, 2)
	assert.True(t, doc.Blocks[0].Ordered)
	assert.Equal(t, 3, doc.Blocks[0].Start)

	tasks := doc.Blocks[1].Items
	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].Task)
	assert.True(t, tasks[0].Done)
	assert.True(t, tasks[1].Task)
	assert.False(t, tasks[1].Done)
}

func TestBuildQuoteTones(t *testing.T) {
	doc := Build("> Critical: danger ahead\n\n> mind the risk\n\n<!-- -->\n\n> just a tip\n", CategoryRisk)
	var quotes []Block
	for _, b := range doc.Blocks {
		if b.Kind == BlockQuote {
			quotes = append(quotes, b)
		}
	}
	require.Len(t, quotes, 3)
	assert.Equal(t, ToneError, quotes[0].Tone)
	assert.Equal(t, "🛡", quotes[0].Icon)
	assert.Equal(t, ToneWarning, quotes[1].Tone)
	assert.Equal(t, ToneInfo, quotes[2].Tone)
	require.Len(t, quotes[2].Children, 1)
	assert.Equal(t, "just a tip", PlainText(quotes[2].Children[0].Spans))
}

func TestBuildTableCodeRule(t *testing.T) {
	md := "| Factor | Level |\n|---|---|\n| Competition | **High** |\n| Cost | **Low** |\n\n```go\nfmt.Println(1)\n```\n\n---\n"
	doc := Build(md, CategoryCompetition)
	require.Len(t, doc.Blocks, 3)

	tbl := doc.Blocks[0]
	assert.Equal(t, BlockTable, tbl.Kind)
	require.Len(t, tbl.Header, 2)
	assert.Equal(t, "Factor", PlainText(tbl.Header[0]))
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Competition", PlainText(tbl.Rows[0][0]))
	require.Len(t, tbl.Rows[0][1], 1)
	assert.Equal(t, BadgeRed, tbl.Rows[0][1][0].Badge)
	assert.Equal(t, BadgeGreen, tbl.Rows[1][1][0].Badge)

	code := doc.Blocks[1]
	assert.Equal(t, BlockCode, code.Kind)
	assert.Equal(t, "go", code.Lang)
	assert.Equal(t, "fmt.Println(1)", code.Code)

	assert.Equal(t, BlockRule, doc.Blocks[2].Kind)
}

func TestBuildMalformedDegrades(t *testing.T) {
	doc := Build("**unclosed *emphasis\n\n| not | a table\n\n```\nopen fence", CategoryDefault)
	require.NotEmpty(t, doc.Blocks)
	assert.Equal(t, BlockParagraph, doc.Blocks[0].Kind)
	assert.Equal(t, "**unclosed *emphasis", PlainText(doc.Blocks[0].Spans))
}

func TestBuildStructuredMarkdownOutput(t *testing.T) {
	md := "### Tiers\n\n- **Name:** Free\n  - **Features:**\n    - a\n\n**Core:** msg"
	doc := Build(md, CategoryMarket)
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, 3, doc.Blocks[0].Level)
	assert.Equal(t, BlockList, doc.Blocks[1].Kind)
	assert.Equal(t, BadgeNeutral, doc.Blocks[2].Spans[0].Badge)
}
