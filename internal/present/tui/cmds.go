package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/ideaval/internal/session"
)

// copiedFor is how long the copy affordance reads "Copied!".
const copiedFor = 2 * time.Second

// stateChangedMsg tells Update the session changed; Update re-reads it.
type stateChangedMsg struct{}

// submitResultMsg conveys the outcome of a submission back to Update.
type submitResultMsg struct {
	state session.State
	err   error
	dur   time.Duration
}

// actionResultMsg conveys the outcome of a back action.
type actionResultMsg struct {
	err error
}

type copiedMsg struct{ err error }

// copyResetMsg reverts the copy affordance unless a newer copy happened.
type copyResetMsg struct{ seq int }

func submitCmd(ctx context.Context, sess *session.Store, idea string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := sess.Submit(ctx, idea)
		return submitResultMsg{state: sess.Snapshot(), err: err, dur: time.Since(start)}
	}
}

func backCmd(ctx context.Context, sess *session.Store) tea.Cmd {
	return func() tea.Msg {
		return actionResultMsg{err: sess.Back(ctx)}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}

func copyResetCmd(seq int) tea.Cmd {
	return tea.Tick(copiedFor, func(time.Time) tea.Msg {
		return copyResetMsg{seq: seq}
	})
}
