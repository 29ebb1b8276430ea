package db

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mithrel/ideaval/pkg/api"
)

type memStore struct {
	mu      sync.RWMutex
	kv      map[string]string
	reports map[string]api.Report
}

func newMemStore() *memStore {
	return &memStore{kv: make(map[string]string), reports: make(map[string]api.Report)}
}

// InTx runs fn directly; each call is already atomic.
func (m *memStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *memStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.kv[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memStore) Put(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = value
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, key)
	return nil
}

func (m *memStore) PutReport(ctx context.Context, r api.Report) error {
	if r.ID == "" {
		return fmt.Errorf("report id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r.CreatedAt = r.CreatedAt.UTC()
	r.Result = r.Result.Complete()
	m.reports[r.ID] = r
	return nil
}

func (m *memStore) GetReport(ctx context.Context, id string) (api.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return api.Report{}, ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	var found []api.Report
	for k, r := range m.reports {
		if strings.HasPrefix(k, id) {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return api.Report{}, ErrNotFound
	case 1:
		return found[0], nil
	default:
		return api.Report{}, fmt.Errorf("%w: %q", ErrAmbiguous, id)
	}
}

func (m *memStore) ListReports(ctx context.Context, q ReportQuery) ([]api.Report, error) {
	m.mu.RLock()
	out := make([]api.Report, 0, len(m.reports))
	for _, r := range m.reports {
		if !q.Since.IsZero() && r.CreatedAt.Before(q.Since) {
			continue
		}
		if !q.Until.IsZero() && r.CreatedAt.After(q.Until) {
			continue
		}
		out = append(out, r)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memStore) DeleteReports(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.reports))
	m.reports = make(map[string]api.Report)
	return n, nil
}
