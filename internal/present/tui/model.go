// Package tui is the interactive terminal front end: a landing page with an
// idea form, and the report results view.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/mithrel/ideaval/internal/report"
	"github.com/mithrel/ideaval/internal/session"
)

type Options struct {
	Session *session.Store
	Log     *zap.Logger
	// Clipboard writes text to the system clipboard. Defaults to atotto/clipboard.
	Clipboard func(string) error
}

// Run opens the full-screen program on the session's current view.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Changes made from inside Update also notify, so the subscriber must
	// never block on p.Send. Pending signals collapse into one.
	changed := make(chan struct{}, 1)
	unsub := opts.Session.Subscribe(func(session.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsub()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-changed:
				p.Send(stateChangedMsg{})
			}
		}
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context
	sess    *session.Store
	log     *zap.Logger
	copy    func(string) error
	state   session.State
	landing landingView
	results resultsView
	modal   *ideaModal

	width        int
	height       int
	status       string
	lastDuration time.Duration
	copied       bool
	copySeq      int
}

func New(ctx context.Context, opts Options) Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	cp := opts.Clipboard
	if cp == nil {
		cp = clipboard.WriteAll
	}
	m := Model{
		ctx:     ctx,
		sess:    opts.Session,
		log:     log,
		copy:    cp,
		state:   opts.Session.Snapshot(),
		landing: newLandingView(),
		results: newResultsView(),
	}
	m.layout(80, 24)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) layout(w, h int) {
	m.width, m.height = w, h
	// one footer line
	m.landing.resize(w, h-1)
	m.results.resize(w, h-1)
	m.results.sync(m.state)
	if m.modal != nil {
		m.modal.resizeForTerm(w, h)
	}
}

// setState adopts a session state; switching views resets the panes.
func (m *Model) setState(st session.State) {
	prev := m.state
	m.state = st
	if st.View != prev.View || st.ActiveSection != prev.ActiveSection {
		m.results.top()
	}
	m.results.sync(st)
	if st.View == session.ViewLanding {
		m.copied = false
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		return m, nil
	case stateChangedMsg:
		m.setState(m.sess.Snapshot())
		return m, nil
	case submitResultMsg:
		m.lastDuration = msg.dur
		switch {
		case errors.Is(msg.err, session.ErrSubmitInFlight):
			m.status = "A validation is already running"
			return m, nil
		case msg.err != nil:
			if m.modal != nil {
				m.modal.stopLoading()
			}
			m.status = fmt.Sprintf("Validate failed: %v", msg.err)
			return m, nil
		}
		m.modal = nil
		m.setState(msg.state)
		if msg.state.Error != "" {
			m.status = "Showing example data"
		} else {
			m.status = "Validated"
		}
		return m, nil
	case actionResultMsg:
		if msg.err != nil {
			m.log.Warn("session action failed", zap.Error(msg.err))
			m.status = msg.err.Error()
		}
		m.setState(m.sess.Snapshot())
		return m, nil
	case copiedMsg:
		if msg.err != nil {
			m.log.Warn("copy to clipboard failed", zap.Error(msg.err))
			m.status = fmt.Sprintf("Copy failed: %v", msg.err)
			return m, nil
		}
		m.copied = true
		m.copySeq++
		return m, copyResetCmd(m.copySeq)
	case copyResetMsg:
		if msg.seq == m.copySeq {
			m.copied = false
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}
	if m.state.View == session.ViewResults && m.state.Result != nil {
		return m.updateResults(msg)
	}
	return m.updateLanding(msg)
}

func (m Model) updateLanding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q", "ctrl+q":
			return m, tea.Quit
		case "enter", "v":
			m.modal = newIdeaModal(m.width, m.height)
			return m, nil
		}
	}
	return m, m.landing.update(msg)
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			if m.modal.loading {
				return m, nil
			}
			m.modal = nil
			return m, nil
		case "ctrl+s":
			if !m.modal.canSubmit() {
				return m, nil
			}
			idea := m.modal.value()
			m.status = ""
			return m, tea.Batch(m.modal.startLoading(), submitCmd(m.ctx, m.sess, idea))
		}
	}
	var cmd tea.Cmd
	m.modal, cmd = m.modal.update(msg)
	return m, cmd
}

func (m Model) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.results.update(msg)
	}
	switch s := k.String(); s {
	case "q", "ctrl+q":
		return m, tea.Quit
	case "up", "k":
		return m.selectSection(step(m.state.ActiveSection, -1))
	case "down", "j":
		return m.selectSection(step(m.state.ActiveSection, 1))
	case "tab":
		return m.selectSection(cycle(m.state.ActiveSection, 1))
	case "shift+tab":
		return m.selectSection(cycle(m.state.ActiveSection, -1))
	case "1", "2", "3", "4", "5", "6":
		secs := report.Sections()
		return m.selectSection(secs[int(s[0]-'1')].ID)
	case "c":
		return m, copyCmd(m.copy, m.state.Result.StartupIdea)
	case "b", "esc":
		m.status = ""
		return m, backCmd(m.ctx, m.sess)
	}
	return m, m.results.update(msg)
}

// selectSection switches and persists in the same step, so the stored
// section always follows the order of key presses.
func (m Model) selectSection(id report.SectionID) (tea.Model, tea.Cmd) {
	if id == m.state.ActiveSection {
		m.results.top()
		return m, nil
	}
	if err := m.sess.SetActiveSection(m.ctx, id); err != nil {
		m.log.Warn("store section failed", zap.Error(err))
		m.status = err.Error()
	}
	st := m.state
	st.ActiveSection = id
	m.setState(st)
	return m, nil
}

func (m Model) renderFooter() string {
	var left string
	switch {
	case m.modal != nil:
		left = "ctrl+s validate • esc cancel"
	case m.state.View == session.ViewResults && m.state.Result != nil:
		left = "↑/↓ section • 1-6 jump • pgup/pgdn scroll • c copy • b back • q quit"
	default:
		left = "enter validate an idea • ↑/↓ scroll • q quit"
	}

	var right string
	if m.status != "" {
		if m.lastDuration > 0 {
			right = fmt.Sprintf("%s (%s) ", m.status, m.lastDuration.Round(time.Millisecond))
		} else {
			right = m.status + " "
		}
	}

	space := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return lipgloss.NewStyle().Faint(true).Render(left) + strings.Repeat(" ", space) + right
}

func (m Model) View() string {
	var base string
	if m.state.View == session.ViewResults && m.state.Result != nil {
		base = m.results.view(m.state, m.copied)
	} else {
		base = m.landing.view()
	}
	base = lipgloss.NewStyle().Height(max(1, m.height-1)).MaxHeight(max(1, m.height-1)).Render(base)
	out := base + "\n" + m.renderFooter()
	if m.modal != nil {
		return m.renderOverlay(out, m.modal.View())
	}
	return out
}
