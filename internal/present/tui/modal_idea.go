package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

const ideaPlaceholder = "e.g., An AI-powered platform that helps entrepreneurs validate their startup ideas through comprehensive market analysis..."

// ideaModal is the foreground form holding the idea text.
type ideaModal struct {
	ta      textarea.Model
	spin    spinner.Model
	loading bool
	width   int
	height  int
	padX    int
	padY    int
	box     lipglossv2.Style
}

func newIdeaModal(termW, termH int) *ideaModal {
	ta := textarea.New()
	ta.Placeholder = ideaPlaceholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := &ideaModal{ta: ta, spin: sp, padX: 2, padY: 1}
	m.resizeForTerm(termW, termH)
	return m
}

func (m *ideaModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.6)
	if termW < 80 {
		w = termW - 4
	}
	if w < 40 {
		w = max(32, termW-2)
	}
	// title, blank, 5 rows of input, blank, hint
	h := 9 + m.padY*2 + 2
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(10, w-2-m.padX*2)
	m.ta.SetWidth(innerW)
	m.ta.SetHeight(5)
}

func (m *ideaModal) value() string { return m.ta.Value() }

// canSubmit is false while the idea is blank or a request is in flight.
func (m *ideaModal) canSubmit() bool {
	return !m.loading && strings.TrimSpace(m.ta.Value()) != ""
}

// startLoading locks the form and starts the spinner.
func (m *ideaModal) startLoading() tea.Cmd {
	m.loading = true
	m.ta.Blur()
	return m.spin.Tick
}

func (m *ideaModal) stopLoading() {
	m.loading = false
	m.ta.Focus()
}

func (m *ideaModal) update(msg tea.Msg) (*ideaModal, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.ta, cmd = m.ta.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *ideaModal) hint() string {
	if m.loading {
		return m.spin.View() + " Analyzing..."
	}
	submit := "ctrl+s validate idea"
	if !m.canSubmit() {
		submit = lipglossv2.NewStyle().Faint(true).Render(submit)
	}
	return submit + " • esc cancel"
}

func (m *ideaModal) View() string {
	title := lipglossv2.NewStyle().Bold(true).Render("Your Startup Idea")
	return m.box.Render(title + "\n\n" + m.ta.View() + "\n\n" + m.hint())
}
