// Package session holds the single owned view state of the client and
// keeps it in local storage across runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mithrel/ideaval/internal/db"
	"github.com/mithrel/ideaval/internal/report"
	"github.com/mithrel/ideaval/pkg/api"
)

// View is the top-level screen.
type View string

const (
	ViewLanding View = "landing"
	ViewResults View = "results"
)

// FallbackMessage is shown when a submission failed and the example report
// is displayed instead.
const FallbackMessage = "Failed to validate idea. Using example data for demonstration."

// Storage keys.
const (
	SnapshotKey = "session.snapshot"
	SectionKey  = "session.activeSection"
)

var (
	ErrBlankIdea      = errors.New("idea is blank")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
)

// Validator produces a report for an idea.
type Validator interface {
	Validate(ctx context.Context, idea string) (api.ValidationResult, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, idea string) (api.ValidationResult, error)

func (f ValidatorFunc) Validate(ctx context.Context, idea string) (api.ValidationResult, error) {
	return f(ctx, idea)
}

// State is a copy of the session at one point in time. Result is non-nil
// whenever View is ViewResults.
type State struct {
	View          View
	Result        *api.ValidationResult
	Error         string
	ActiveSection report.SectionID
	Loading       bool
}

func (s State) clone() State {
	if s.Result != nil {
		r := *s.Result
		r.Messages = append([]string{}, s.Result.Messages...)
		s.Result = &r
	}
	return s
}

// snapshot is the persisted layout.
type snapshot struct {
	ValidationData json.RawMessage `json:"validationData"`
	Error          *string         `json:"error"`
}

// Store owns the session state. All methods are safe for concurrent use;
// the last write wins.
type Store struct {
	kv        db.KV
	validator Validator
	history   db.Reports
	tx        db.TxRunner
	log       *zap.Logger
	now       func() time.Time
	example   func() api.ValidationResult

	mu      sync.Mutex
	state   State
	lastErr error
	subs    map[int]func(State)
	nextSub int
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHistory records every completed submission.
func WithHistory(r db.Reports) Option { return func(s *Store) { s.history = r } }

// WithTx makes the snapshot write and history append atomic.
func WithTx(tx db.TxRunner) Option { return func(s *Store) { s.tx = tx } }

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithExample replaces the report substituted after a failed submission.
func WithExample(fn func() api.ValidationResult) Option { return func(s *Store) { s.example = fn } }

// New returns a Store on the landing view. Call Restore to load persisted state.
func New(kv db.KV, v Validator, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		validator: v,
		log:       zap.NewNop(),
		now:       time.Now,
		example:   report.Example,
		state:     State{View: ViewLanding, ActiveSection: report.DefaultSection},
		subs:      make(map[int]func(State)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Restore loads the persisted snapshot and section. Corrupt snapshots are
// deleted and leave the session on the landing view.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	err := s.restoreLocked(ctx)
	st := s.state.clone()
	s.mu.Unlock()
	s.notify(st)
	return err
}

func (s *Store) restoreLocked(ctx context.Context) error {
	s.state = State{View: ViewLanding, ActiveSection: report.DefaultSection}

	if raw, err := s.kv.Get(ctx, SectionKey); err == nil {
		if id := report.SectionID(raw); id.Valid() {
			s.state.ActiveSection = id
		}
	} else if !errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("restore section: %w", err)
	}

	raw, err := s.kv.Get(ctx, SnapshotKey)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.log.Warn("discarding malformed session snapshot", zap.Error(err))
		return s.discardLocked(ctx)
	}
	data := strings.TrimSpace(string(snap.ValidationData))
	if data == "" || data == "null" {
		return s.discardLocked(ctx)
	}
	res, err := api.DecodeStoredResult(snap.ValidationData)
	if err != nil {
		s.log.Warn("discarding malformed session snapshot", zap.Error(err))
		return s.discardLocked(ctx)
	}
	s.state.Result = &res
	s.state.View = ViewResults
	if snap.Error != nil {
		s.state.Error = *snap.Error
	}
	return nil
}

func (s *Store) discardLocked(ctx context.Context) error {
	if err := s.kv.Delete(ctx, SnapshotKey); err != nil {
		return fmt.Errorf("discard snapshot: %w", err)
	}
	return nil
}

// Submit validates idea. A failed request falls back to the example report
// with FallbackMessage; either way the session ends on the results view and
// Submit returns nil. The request error stays available from LastFailure.
func (s *Store) Submit(ctx context.Context, idea string) error {
	if strings.TrimSpace(idea) == "" {
		return ErrBlankIdea
	}
	s.mu.Lock()
	if s.state.Loading {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	s.state.Loading = true
	s.state.Error = ""
	st := s.state.clone()
	s.mu.Unlock()
	s.notify(st)

	start := s.now()
	res, err := s.validator.Validate(ctx, idea)

	s.mu.Lock()
	s.state.Loading = false
	s.state.View = ViewResults
	if err != nil {
		s.log.Error("validation failed, showing example report", zap.Error(err))
		ex := s.example().Complete()
		s.lastErr = err
		s.state.Result = &ex
		s.state.Error = FallbackMessage
	} else {
		res = res.Complete()
		s.lastErr = nil
		s.state.Result = &res
		s.state.Error = ""
		s.log.Info("idea validated", zap.Duration("dur", s.now().Sub(start)))
	}
	var rec *api.Report
	if s.history != nil {
		errMsg := ""
		if err != nil {
			errMsg = err.Error()
		}
		r := api.NewReport(idea, *s.state.Result, err != nil, errMsg, start)
		rec = &r
	}
	s.persistLocked(ctx, rec)
	st = s.state.clone()
	s.mu.Unlock()
	s.notify(st)
	return nil
}

// Back returns to the landing view and erases the persisted snapshot.
func (s *Store) Back(ctx context.Context) error {
	s.mu.Lock()
	s.state.View = ViewLanding
	s.state.Result = nil
	s.state.Error = ""
	err := s.kv.Delete(ctx, SnapshotKey)
	st := s.state.clone()
	s.mu.Unlock()
	s.notify(st)
	if err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

// SetActiveSection selects and persists the section shown in results.
func (s *Store) SetActiveSection(ctx context.Context, id report.SectionID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %q", report.ErrUnknownSection, string(id))
	}
	s.mu.Lock()
	s.state.ActiveSection = id
	err := s.kv.Put(ctx, SectionKey, string(id))
	s.persistLocked(ctx, nil)
	st := s.state.clone()
	s.mu.Unlock()
	s.notify(st)
	if err != nil {
		return fmt.Errorf("store section: %w", err)
	}
	return nil
}

// Show puts an existing report on the results view, as when reopening history.
func (s *Store) Show(ctx context.Context, res api.ValidationResult, errMsg string) {
	res = res.Complete()
	s.mu.Lock()
	s.state.View = ViewResults
	s.state.Result = &res
	s.state.Error = errMsg
	s.persistLocked(ctx, nil)
	st := s.state.clone()
	s.mu.Unlock()
	s.notify(st)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// LastFailure returns the error of the most recent failed submission, or nil
// after a successful one.
func (s *Store) LastFailure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers fn for every state change and returns a function that
// removes it. fn runs outside the store lock.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(st State) {
	s.mu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(st.clone())
	}
}

// persistLocked writes the snapshot while results are shown, together with
// rec when one is given. Storage errors are logged.
func (s *Store) persistLocked(ctx context.Context, rec *api.Report) {
	if s.state.View != ViewResults || s.state.Result == nil {
		return
	}
	data, err := json.Marshal(s.state.Result)
	if err != nil {
		s.log.Error("encode session snapshot", zap.Error(err))
		return
	}
	snap := snapshot{ValidationData: data}
	if s.state.Error != "" {
		e := s.state.Error
		snap.Error = &e
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		s.log.Error("encode session snapshot", zap.Error(err))
		return
	}
	write := func(ctx context.Context) error {
		if err := s.kv.Put(ctx, SnapshotKey, string(payload)); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		if rec != nil {
			if err := s.history.PutReport(ctx, *rec); err != nil {
				return fmt.Errorf("record history: %w", err)
			}
		}
		return nil
	}
	if s.tx != nil {
		err = s.tx.InTx(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		s.log.Error("persist session", zap.Error(err))
	}
}
