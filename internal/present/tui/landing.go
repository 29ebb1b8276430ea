package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type blockKind int

const (
	blockHero blockKind = iota
	blockSubtitle
	blockText
	blockButton
	blockTag
	blockTitle
	blockCard
	blockImage
	blockDetail
	blockCTA
)

// copyBlock is one labelled piece of landing content. Each is revealed
// independently as it scrolls into view.
type copyBlock struct {
	Key   string
	Kind  blockKind
	Title string
	Text  string
}

var landingCopy = []copyBlock{
	{Key: "hero-title", Kind: blockHero, Text: "Our AI Powered Startup Idea Generator!"},
	{Key: "hero-subtitle", Kind: blockSubtitle, Text: "Generate business and startup ideas with our free AI tool in 5 seconds!"},
	{Key: "hero-description", Kind: blockText, Text: "Answer three questions and our AI will create 10 business ideas you can launch. Once you land on an idea you like, talk to Val about it and she will score it."},
	{Key: "hero-button", Kind: blockButton, Text: "Validate Your Idea Here!"},
	{Key: "section-tag", Kind: blockTag, Text: "How Do I Launch a Startup?"},
	{Key: "section-title", Kind: blockTitle, Text: "Is My Idea Any Good?"},
	{Key: "section-description", Kind: blockText, Text: "We all want to know if our business idea is worth pursuing, and how to get it moving. Val helps you figure it out in just a few minutes. Val is trained on real market data and startup launch patterns. She'll perform AI based competitive analysis, customer analysis and she will find your unique value proposition. You'll get clarity, personalized feedback, and suggestions to make your idea more \"market ready.\" Val even gives you assets to move forward - if you want to launch. It's fast, focused, and free."},
	{Key: "card-market", Kind: blockCard, Title: "📈 Market Analysis with AI", Text: "Val is the startup advisor we all wish we had at the beginning: fast, honest, and grounded in real market data. While you chat, Val researches your space in real time: identifying competitors, your customer profile, and how your idea fits into the market. Then she gives you a clear value proposition to consider, and useful assets like next steps, launch advice, and helpful tools... all personalized to your idea."},
	{Key: "card-community", Kind: blockCard, Title: "👥 Join 200,000+ startup explorers!", Text: "All 200,000 members are part of our startup newsletter: the world's largest group of people exploring ideas, testing what's possible, and thinking about what to build next. Each week, we share insights from Val, startup trends, and real conversations about business and life at the earliest stages. You can even share your idea with the group if you want feedback or early traction. No pressure, just exploration."},
	{Key: "section-tag-2", Kind: blockTag, Text: "How Do I Come Up With a Business Idea?"},
	{Key: "image-section", Kind: blockImage, Text: "Young entrepreneur"},
	{Key: "text-section", Kind: blockTitle, Text: "Our AI Helps Refine and Iterate Your Idea"},
	{Key: "detail-1", Kind: blockDetail, Title: "Simulate Customer Discussions and a Launch", Text: "Val will run a quick simulation of what your startup launch might look like. She will surface potential concerns, objections and feedback from your target customer. Our AI tool will identify phrases on Google you can rank for, what smart pricing might look like and what your website conversion rate could be."},
	{Key: "detail-2", Kind: blockDetail, Title: "Move Your Startup Idea and Entrepreneurship Journey Forward", Text: "After your chat, Val sends you a personalized guide with suggestions for how to improve your concept and explore it further. You'll also get helpful resources like an AI-generated landing page if you want momentum! She will analyze and score your idea against market data and the competition in your space. It's the best first step you can take when proving out your idea."},
	{Key: "cta-section", Kind: blockCTA, Title: "Ready to Validate Your Idea?", Text: "Get instant AI-powered insights into your startup idea's potential"},
}

var (
	heroStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"})
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#93C5FD"})
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#374151", Dark: "#D1D5DB"})
	buttonStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 2).
			Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#2563EB"))
	tagStyle = lipgloss.NewStyle().Padding(0, 1).
			Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#111827"))
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cardStyle  = lipgloss.NewStyle().Padding(0, 1).
			Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	detailStyle = lipgloss.NewStyle().PaddingLeft(1).
			Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(lipgloss.Color("#2563EB"))
	ctaStyle = lipgloss.NewStyle().Padding(1, 2).Align(lipgloss.Center).
			Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#2563EB"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// landingView is the scrollable marketing page.
type landingView struct {
	vp      viewport.Model
	tracker *revealTracker
	blocks  []copyBlock
	// rendered holds each block at the current width, in order.
	rendered []string
	spans    []span
	width    int
}

func newLandingView() landingView {
	return landingView{
		vp:      viewport.New(80, 20),
		tracker: newRevealTracker(0.1),
		blocks:  landingCopy,
	}
}

func (l *landingView) resize(width, height int) {
	l.vp.Width = width
	l.vp.Height = max(1, height)
	inner := clamp(width-4, 20, 88)
	if inner != l.width || l.rendered == nil {
		l.width = inner
		l.layout()
	}
	l.refresh()
}

// layout renders every block at the current width and records its span.
func (l *landingView) layout() {
	l.rendered = l.rendered[:0]
	l.spans = l.spans[:0]
	line := 0
	for _, b := range l.blocks {
		s := renderBlock(b, l.width)
		h := lipgloss.Height(s)
		l.rendered = append(l.rendered, s)
		l.spans = append(l.spans, span{key: b.Key, top: line, height: h})
		// one blank separator line between blocks
		line += h + 1
	}
}

// refresh reveals blocks now in view and rebuilds the content. Hidden
// blocks keep their height as blank lines.
func (l *landingView) refresh() {
	l.tracker.observe(l.spans, l.vp.YOffset, l.vp.Height)
	parts := make([]string, 0, len(l.rendered))
	for i, s := range l.rendered {
		if l.tracker.visible(l.blocks[i].Key) {
			parts = append(parts, s)
			continue
		}
		parts = append(parts, blankLines(l.spans[i].height))
	}
	content := lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(parts, "\n\n"))
	off := l.vp.YOffset
	l.vp.SetContent(content)
	l.vp.SetYOffset(off)
}

func (l *landingView) update(msg tea.Msg) tea.Cmd {
	before := l.vp.YOffset
	var cmd tea.Cmd
	l.vp, cmd = l.vp.Update(msg)
	if l.vp.YOffset != before {
		l.refresh()
	}
	return cmd
}

func (l *landingView) revealed() int {
	n := 0
	for _, b := range l.blocks {
		if l.tracker.visible(b.Key) {
			n++
		}
	}
	return n
}

func renderBlock(b copyBlock, width int) string {
	switch b.Kind {
	case blockHero:
		return heroStyle.Render(wrap(strings.ToUpper(b.Text), width))
	case blockSubtitle:
		return subtitleStyle.Render(wrap(b.Text, width))
	case blockButton:
		return buttonStyle.Render("▶ "+b.Text) + faintStyle.Render("  press enter")
	case blockTag:
		return tagStyle.Render(b.Text)
	case blockTitle:
		return titleStyle.Render(wrap(b.Text, width))
	case blockCard:
		inner := width - 4
		body := lipgloss.NewStyle().Bold(true).Render(b.Title) + "\n\n" + textStyle.Render(wrap(b.Text, inner))
		return cardStyle.Width(width - 2).Render(body)
	case blockImage:
		return cardStyle.Width(width-2).Align(lipgloss.Center).Render(faintStyle.Render("🖼  " + b.Text))
	case blockDetail:
		inner := width - 2
		body := lipgloss.NewStyle().Bold(true).Render(wrap(b.Title, inner)) + "\n" + textStyle.Render(wrap(b.Text, inner))
		return detailStyle.Render(body)
	case blockCTA:
		inner := width - 6
		body := lipgloss.NewStyle().Bold(true).Render(wrap(b.Title, inner)) + "\n" +
			textStyle.Render(wrap(b.Text, inner)) + "\n\n" + buttonStyle.Render("Start Validation Now")
		return ctaStyle.Width(width - 2).Render(body)
	default:
		return textStyle.Render(wrap(b.Text, width))
	}
}

func (l landingView) view() string {
	return l.vp.View()
}
