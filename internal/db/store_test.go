package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/ideaval/pkg/api"
)

func openers(t *testing.T) map[string]func() *Store {
	return map[string]func() *Store{
		"sqlite": func() *Store {
			st, closer, err := Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "test.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = closer.Close() })
			return st
		},
		"mem": func() *Store {
			st, closer, err := Open(context.Background(), MemoryDSN)
			require.NoError(t, err)
			t.Cleanup(func() { _ = closer.Close() })
			return st
		},
	}
}

func TestKV(t *testing.T) {
	for name, open := range openers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := open().KV

			_, err := kv.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Put(ctx, "k", "v1"))
			require.NoError(t, kv.Put(ctx, "k", "v2"))
			v, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v2", v)

			require.NoError(t, kv.Delete(ctx, "k"))
			require.NoError(t, kv.Delete(ctx, "k"))
			_, err = kv.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestReports(t *testing.T) {
	base := time.Date(2025, 5, 1, 10, 0, 0, 123, time.UTC)
	for name, open := range openers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			reps := open().Reports

			a := api.NewReport("first idea", api.ValidationResult{StartupIdea: "first idea", Advice: "ship"}, false, "", base)
			b := api.NewReport("second idea", api.ValidationResult{StartupIdea: "second idea"}, true, "boom", base.Add(time.Hour))
			c := api.NewReport("third idea", api.ValidationResult{StartupIdea: "third idea"}, false, "", base.Add(2*time.Hour))
			for _, r := range []api.Report{a, b, c} {
				require.NoError(t, reps.PutReport(ctx, r))
			}

			got, err := reps.GetReport(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, a.Idea, got.Idea)
			assert.True(t, a.CreatedAt.Equal(got.CreatedAt))
			assert.Equal(t, "ship", got.Result.Advice)
			assert.Equal(t, []string{}, got.Result.Messages)

			got, err = reps.GetReport(ctx, b.ID[:6])
			require.NoError(t, err)
			assert.True(t, got.Fallback)
			assert.Equal(t, "boom", got.Error)

			_, err = reps.GetReport(ctx, "zzzz")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = reps.GetReport(ctx, " ")
			assert.ErrorIs(t, err, ErrNotFound)

			list, err := reps.ListReports(ctx, ReportQuery{})
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, []string{c.ID, b.ID, a.ID}, []string{list[0].ID, list[1].ID, list[2].ID})

			list, err = reps.ListReports(ctx, ReportQuery{Limit: 1})
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, c.ID, list[0].ID)

			list, err = reps.ListReports(ctx, ReportQuery{Since: base.Add(30 * time.Minute), Until: base.Add(90 * time.Minute)})
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, b.ID, list[0].ID)

			n, err := reps.DeleteReports(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(3), n)
			list, err = reps.ListReports(ctx, ReportQuery{})
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestPutReportRequiresID(t *testing.T) {
	for name, open := range openers(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, open().Reports.PutReport(context.Background(), api.Report{}))
		})
	}
}

func TestInTxRollsBack(t *testing.T) {
	st, closer, err := Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	defer closer.Close()
	ctx := context.Background()

	boom := errors.New("boom")
	err = st.Tx.InTx(ctx, func(ctx context.Context) error {
		require.NoError(t, st.KV.Put(ctx, "k", "v"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	_, err = st.KV.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Tx.InTx(ctx, func(ctx context.Context) error {
		return st.KV.Put(ctx, "k", "v")
	}))
	v, err := st.KV.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestDSNForDir(t *testing.T) {
	assert.Equal(t, MemoryDSN, DSNForDir(MemoryDSN))
	assert.Equal(t, "sqlite://"+filepath.Join("/tmp/x", "ideaval.db"), DSNForDir("/tmp/x"))
	assert.Equal(t, "/tmp/y.db", expandPath("sqlite:///tmp/y.db"))
}
