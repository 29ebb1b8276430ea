package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/ideaval/internal/render"
	"github.com/mithrel/ideaval/internal/report"
	"github.com/mithrel/ideaval/internal/session"
)

const sidebarWidth = 34

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	sideBoxStyle  = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	noticeStyle   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#F59E0B")).Foreground(lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#FCD34D"})
	copiedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	navItemStyle  = lipgloss.NewStyle().Padding(0, 1)
	contentTitle  = lipgloss.NewStyle().Bold(true)
	sectionsLabel = lipgloss.NewStyle().Faint(true).Bold(true)
)

// resultsView shows one report section at a time next to a sidebar.
type resultsView struct {
	vp     viewport.Model
	width  int
	height int
	// key of the content currently in vp, to skip re-rendering
	shown string
}

func newResultsView() resultsView {
	return resultsView{vp: viewport.New(40, 10)}
}

func (r *resultsView) contentWidth() int {
	return max(20, r.width-sidebarWidth-3)
}

func (r *resultsView) resize(width, height int) {
	r.width, r.height = width, height
	r.vp.Width = r.contentWidth()
	// header (3 lines) and section badge/title (3 lines)
	r.vp.Height = max(3, height-6)
	r.shown = ""
}

// sync renders the active section into the viewport when it changed.
func (r *resultsView) sync(st session.State) {
	if st.Result == nil {
		r.vp.SetContent("")
		r.shown = ""
		return
	}
	c := report.ContentFor(*st.Result, st.ActiveSection)
	key := fmt.Sprintf("%s|%d|%p", c.Section, r.vp.Width, st.Result)
	if key == r.shown {
		return
	}
	r.shown = key
	r.vp.SetContent(render.Markdown(c.Body, c.Category, r.vp.Width))
}

func (r *resultsView) top() {
	r.vp.GotoTop()
}

func (r *resultsView) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	r.vp, cmd = r.vp.Update(msg)
	return cmd
}

func (r resultsView) sidebar(st session.State, copied bool) string {
	inner := sidebarWidth - 4
	var idea string
	if st.Result != nil {
		idea = strings.TrimSpace(st.Result.StartupIdea)
	}
	action := lipgloss.NewStyle().Faint(true).Render("[c] Copy Idea")
	if copied {
		action = copiedStyle.Render("✓ Copied!")
	}
	ideaBox := sideBoxStyle.Width(sidebarWidth - 2).Render(
		headerStyle.Render("Startup Idea") + "\n" + wrap(idea, inner) + "\n\n" + action)

	var nav strings.Builder
	nav.WriteString(sectionsLabel.Render("SECTIONS"))
	for i, sec := range report.Sections() {
		label := fmt.Sprintf("%d %s %s", i+1, sec.Icon, sec.Label)
		style := navItemStyle.Width(sidebarWidth - 2)
		if sec.ID == st.ActiveSection {
			style = style.Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color(sec.Accent))
		}
		nav.WriteString("\n" + style.Render(label))
	}

	parts := []string{ideaBox, nav.String()}
	if st.Error != "" {
		parts = append(parts, noticeStyle.Width(sidebarWidth-2).Render("⚠ "+wrap(st.Error, inner)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (r resultsView) main(st session.State) string {
	sec, ok := report.Lookup(st.ActiveSection)
	if !ok {
		sec, _ = report.Lookup(report.DefaultSection)
	}
	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(sec.Accent)).
		Render(sec.Icon + " " + sec.Label)
	title := contentTitle.Foreground(lipgloss.Color(sec.Accent)).Render(sec.Title)
	return badge + "\n" + title + "\n\n" + r.vp.View()
}

func (r resultsView) view(st session.State, copied bool) string {
	header := headerStyle.Render("← Back [b]   Validation Report") + "\n" +
		lipgloss.NewStyle().Faint(true).Render("Comprehensive analysis and insights") + "\n"
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		r.sidebar(st, copied),
		lipgloss.NewStyle().PaddingLeft(2).Render(r.main(st)),
	)
	return header + "\n" + body
}

// step moves delta places through the section order, clamped to the ends.
func step(id report.SectionID, delta int) report.SectionID {
	secs := report.Sections()
	i := report.Index(id)
	if i < 0 {
		i = 0
	}
	return secs[clamp(i+delta, 0, len(secs)-1)].ID
}

// cycle moves delta places through the section order, wrapping around.
func cycle(id report.SectionID, delta int) report.SectionID {
	secs := report.Sections()
	i := report.Index(id)
	if i < 0 {
		i = 0
	}
	n := len(secs)
	return secs[((i+delta)%n+n)%n].ID
}
