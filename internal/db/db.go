package db

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mithrel/ideaval/pkg/api"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous id prefix")
)

// KV is the string key/value store session state is persisted in.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ReportQuery filters history listings. Zero bounds are open.
type ReportQuery struct {
	Since time.Time
	Until time.Time
	Limit int
}

// Reports keeps the history of submitted ideas.
type Reports interface {
	PutReport(ctx context.Context, r api.Report) error
	// GetReport accepts a full id or a unique prefix of one.
	GetReport(ctx context.Context, id string) (api.Report, error)
	// ListReports returns newest first.
	ListReports(ctx context.Context, q ReportQuery) ([]api.Report, error)
	DeleteReports(ctx context.Context) (int64, error)
}

// TxRunner runs fn in a transaction. Store calls made with the ctx handed
// to fn join that transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store groups the repositories backed by one database.
type Store struct {
	KV      KV
	Reports Reports
	Tx      TxRunner
}

// MemoryDSN selects the in-process store.
const MemoryDSN = ":memory:"

// Open returns a Store for dsn: ":memory:" (or empty) for the memory store,
// otherwise a sqlite file path, optionally prefixed with "sqlite://".
func Open(ctx context.Context, dsn string) (*Store, io.Closer, error) {
	if dsn == "" || dsn == MemoryDSN {
		return openMem()
	}
	return openSQLite(ctx, dsn)
}

// DSNForDir returns the sqlite database path inside a data directory.
func DSNForDir(dir string) string {
	if dir == MemoryDSN {
		return MemoryDSN
	}
	return "sqlite://" + filepath.Join(dir, "ideaval.db")
}

func expandPath(dsn string) string {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}
