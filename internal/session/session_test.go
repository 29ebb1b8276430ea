package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/ideaval/internal/db"
	"github.com/mithrel/ideaval/internal/report"
	"github.com/mithrel/ideaval/pkg/api"
)

func newStore(t *testing.T) *db.Store {
	t.Helper()
	st, closer, err := db.Open(context.Background(), db.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })
	return st
}

func okValidator(calls *int32) ValidatorFunc {
	return func(ctx context.Context, idea string) (api.ValidationResult, error) {
		atomic.AddInt32(calls, 1)
		return api.ValidationResult{
			StartupIdea:            idea,
			IdeaAnalysis:           "idea",
			MarketAnalysis:         "market",
			CompetitionAnalysis:    "competition",
			RiskAssessment:         "risk",
			SwotAnalysis:           "swot",
			AdvisorRecommendations: "Go",
			Advice:                 "advice",
		}, nil
	}
}

func failValidator(ctx context.Context, idea string) (api.ValidationResult, error) {
	return api.ValidationResult{}, errors.New("API 500: down")
}

func TestNewStartsOnLanding(t *testing.T) {
	s := New(newStore(t).KV, ValidatorFunc(failValidator))
	st := s.Snapshot()
	assert.Equal(t, ViewLanding, st.View)
	assert.Nil(t, st.Result)
	assert.Equal(t, report.SectionIdea, st.ActiveSection)
	assert.False(t, st.Loading)
}

func TestSubmitSuccess(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	var calls int32
	s := New(store.KV, okValidator(&calls), WithHistory(store.Reports), WithTx(store.Tx))

	require.NoError(t, s.Submit(ctx, "pet taxi"))
	st := s.Snapshot()
	assert.Equal(t, ViewResults, st.View)
	require.NotNil(t, st.Result)
	assert.Equal(t, "pet taxi", st.Result.StartupIdea)
	assert.Equal(t, []string{}, st.Result.Messages)
	assert.Empty(t, st.Error)
	assert.False(t, st.Loading)
	assert.NoError(t, s.LastFailure())
	assert.EqualValues(t, 1, calls)

	raw, err := store.KV.Get(ctx, SnapshotKey)
	require.NoError(t, err)
	var snap map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	assert.Nil(t, snap["error"])
	assert.Equal(t, "pet taxi", snap["validationData"].(map[string]any)["startup_idea"])

	hist, err := store.Reports.ListReports(ctx, db.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "pet taxi", hist[0].Idea)
	assert.False(t, hist[0].Fallback)
}

func TestSubmitFailureFallsBackToExample(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	s := New(store.KV, ValidatorFunc(failValidator), WithHistory(store.Reports))

	require.NoError(t, s.Submit(ctx, "pet taxi"))
	st := s.Snapshot()
	assert.Equal(t, ViewResults, st.View)
	require.NotNil(t, st.Result)
	assert.Equal(t, report.Example(), *st.Result)
	assert.Equal(t, FallbackMessage, st.Error)
	assert.EqualError(t, s.LastFailure(), "API 500: down")

	raw, err := store.KV.Get(ctx, SnapshotKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"error":"`+FallbackMessage+`"`)

	hist, err := store.Reports.ListReports(ctx, db.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.True(t, hist[0].Fallback)
	assert.Equal(t, "pet taxi", hist[0].Idea)
	assert.Equal(t, "API 500: down", hist[0].Error)
}

func TestSubmitClearsFailureAfterSuccess(t *testing.T) {
	ctx := context.Background()
	fail := true
	s := New(newStore(t).KV, ValidatorFunc(func(ctx context.Context, idea string) (api.ValidationResult, error) {
		if fail {
			return api.ValidationResult{}, errors.New("boom")
		}
		return api.ValidationResult{StartupIdea: idea}, nil
	}))
	require.NoError(t, s.Submit(ctx, "a"))
	require.Error(t, s.LastFailure())
	fail = false
	require.NoError(t, s.Submit(ctx, "b"))
	assert.NoError(t, s.LastFailure())
	assert.Empty(t, s.Snapshot().Error)
}

func TestSubmitBlankNeverRequests(t *testing.T) {
	var calls int32
	s := New(newStore(t).KV, okValidator(&calls))
	for _, idea := range []string{"", "   ", "\n\t "} {
		assert.ErrorIs(t, s.Submit(context.Background(), idea), ErrBlankIdea)
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.Equal(t, ViewLanding, s.Snapshot().View)
}

func TestSubmitSingleInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	s := New(newStore(t).KV, ValidatorFunc(func(ctx context.Context, idea string) (api.ValidationResult, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return api.ValidationResult{StartupIdea: idea}, nil
	}))

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), "first") }()
	<-started
	assert.True(t, s.Snapshot().Loading)
	assert.ErrorIs(t, s.Submit(context.Background(), "second"), ErrSubmitInFlight)
	close(release)
	require.NoError(t, <-done)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.False(t, s.Snapshot().Loading)
}

func TestSubscribeSeesLoadingThenResult(t *testing.T) {
	var calls int32
	s := New(newStore(t).KV, okValidator(&calls))
	var mu sync.Mutex
	var seen []State
	unsub := s.Subscribe(func(st State) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})
	require.NoError(t, s.Submit(context.Background(), "idea"))
	unsub()
	require.NoError(t, s.Back(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.Equal(t, ViewLanding, seen[0].View)
	assert.False(t, seen[1].Loading)
	assert.Equal(t, ViewResults, seen[1].View)
}

func TestBackAlwaysClears(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	s := New(store.KV, ValidatorFunc(failValidator))

	// from landing
	require.NoError(t, s.Back(ctx))
	assert.Equal(t, ViewLanding, s.Snapshot().View)

	require.NoError(t, s.Submit(ctx, "idea"))
	require.NoError(t, s.SetActiveSection(ctx, report.SectionRisk))
	require.NoError(t, s.Back(ctx))
	st := s.Snapshot()
	assert.Equal(t, ViewLanding, st.View)
	assert.Nil(t, st.Result)
	assert.Empty(t, st.Error)
	_, err := store.KV.Get(ctx, SnapshotKey)
	assert.ErrorIs(t, err, db.ErrNotFound)

	// remembered section survives
	assert.Equal(t, report.SectionRisk, st.ActiveSection)
	require.NoError(t, s.Back(ctx))
}

func TestRestoreMalformedSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.KV.Put(ctx, SnapshotKey, "{not json"))

	s := New(store.KV, ValidatorFunc(failValidator))
	require.NoError(t, s.Restore(ctx))
	st := s.Snapshot()
	assert.Equal(t, ViewLanding, st.View)
	assert.Nil(t, st.Result)
	assert.Empty(t, st.Error)
	_, err := store.KV.Get(ctx, SnapshotKey)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestRestoreNonObjectData(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.KV.Put(ctx, SnapshotKey, `{"validationData":[1,2],"error":null}`))

	s := New(store.KV, ValidatorFunc(failValidator))
	require.NoError(t, s.Restore(ctx))
	assert.Equal(t, ViewLanding, s.Snapshot().View)
	_, err := store.KV.Get(ctx, SnapshotKey)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestRestoreNullData(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.KV.Put(ctx, SnapshotKey, `{"validationData":null,"error":"x"}`))

	s := New(store.KV, ValidatorFunc(failValidator))
	require.NoError(t, s.Restore(ctx))
	assert.Equal(t, ViewLanding, s.Snapshot().View)
	_, err := store.KV.Get(ctx, SnapshotKey)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	first := New(store.KV, ValidatorFunc(failValidator))
	require.NoError(t, first.Submit(ctx, "idea"))
	require.NoError(t, first.SetActiveSection(ctx, report.SectionSWOT))

	second := New(store.KV, ValidatorFunc(failValidator))
	require.NoError(t, second.Restore(ctx))
	st := second.Snapshot()
	assert.Equal(t, ViewResults, st.View)
	require.NotNil(t, st.Result)
	assert.Equal(t, report.Example(), *st.Result)
	assert.Equal(t, FallbackMessage, st.Error)
	assert.Equal(t, report.SectionSWOT, st.ActiveSection)
}

func TestRestorePartialSnapshotIsCompleted(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.KV.Put(ctx, SnapshotKey, `{"validationData":{"startup_idea":"x","risk_assessment":"Risk_Assessment: low"}}`))
	require.NoError(t, store.KV.Put(ctx, SectionKey, "bogus"))

	s := New(store.KV, ValidatorFunc(failValidator))
	require.NoError(t, s.Restore(ctx))
	st := s.Snapshot()
	require.NotNil(t, st.Result)
	// stored results were normalized before they were written
	assert.Equal(t, "Risk_Assessment: low", st.Result.RiskAssessment)
	assert.Equal(t, []string{}, st.Result.Messages)
	assert.Empty(t, st.Error)
	assert.Equal(t, report.SectionIdea, st.ActiveSection)
}

func TestSetActiveSectionPersistsAndSelectsContent(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	var calls int32
	s := New(store.KV, okValidator(&calls))
	require.NoError(t, s.Submit(ctx, "idea"))

	want := map[report.SectionID]string{
		report.SectionIdea:            "idea",
		report.SectionMarket:          "market",
		report.SectionCompetition:     "competition",
		report.SectionRisk:            "risk",
		report.SectionSWOT:            "swot",
		report.SectionRecommendations: "**Recommendation:** Go\n\nadvice",
	}
	for id, body := range want {
		require.NoError(t, s.SetActiveSection(ctx, id))
		raw, err := store.KV.Get(ctx, SectionKey)
		require.NoError(t, err)
		assert.Equal(t, string(id), raw)
		st := s.Snapshot()
		assert.Equal(t, body, report.ContentFor(*st.Result, st.ActiveSection).Body)
	}

	err := s.SetActiveSection(ctx, "bogus")
	assert.ErrorIs(t, err, report.ErrUnknownSection)
}

func TestShowLoadsReport(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	s := New(store.KV, ValidatorFunc(failValidator))
	s.Show(ctx, api.ValidationResult{StartupIdea: "old"}, "")
	st := s.Snapshot()
	assert.Equal(t, ViewResults, st.View)
	assert.Equal(t, "old", st.Result.StartupIdea)
	_, err := store.KV.Get(ctx, SnapshotKey)
	assert.NoError(t, err)
}

func TestSnapshotIsACopy(t *testing.T) {
	var calls int32
	s := New(newStore(t).KV, okValidator(&calls), WithClock(func() time.Time { return time.Unix(0, 0) }))
	require.NoError(t, s.Submit(context.Background(), "idea"))
	st := s.Snapshot()
	st.Result.StartupIdea = "mutated"
	assert.Equal(t, "idea", s.Snapshot().Result.StartupIdea)
}

func TestLastWriteWinsAfterBack(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s := New(newStore(t).KV, ValidatorFunc(func(ctx context.Context, idea string) (api.ValidationResult, error) {
		close(started)
		<-release
		return api.ValidationResult{StartupIdea: idea}, nil
	}))
	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), "late") }()
	<-started
	require.NoError(t, s.Back(context.Background()))
	close(release)
	require.NoError(t, <-done)
	st := s.Snapshot()
	assert.Equal(t, ViewResults, st.View)
	assert.Equal(t, "late", st.Result.StartupIdea)
}

func TestSubmitKeepsNormalizedRiskText(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	v := ValidatorFunc(func(ctx context.Context, idea string) (api.ValidationResult, error) {
		return api.DecodeValidationResult([]byte(`{"startup_idea":"x","risk_assessment":"risk_assessment: Risk_Assessment: high"}`))
	})
	s := New(store.KV, v)
	require.NoError(t, s.Submit(ctx, "x"))
	assert.Equal(t, "Risk_Assessment: high", s.Snapshot().Result.RiskAssessment)

	restored := New(store.KV, v)
	require.NoError(t, restored.Restore(ctx))
	require.NotNil(t, restored.Snapshot().Result)
	assert.Equal(t, "Risk_Assessment: high", restored.Snapshot().Result.RiskAssessment)
}
