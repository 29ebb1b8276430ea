package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/ideaval/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

// conn returns the transaction carried by ctx, or the pool.
func (s *sqliteStore) conn(ctx context.Context) querier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

func (s *sqliteStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// KV

func (s *sqliteStore) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

func (s *sqliteStore) Put(ctx context.Context, key, value string) error {
	_, err := s.conn(ctx).ExecContext(ctx, `INSERT INTO kv(key, value, updated_at) VALUES(?,?,?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().UTC().UnixNano())
	return err
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	_, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM kv WHERE key=?`, key)
	return err
}

// Reports

func (s *sqliteStore) PutReport(ctx context.Context, r api.Report) error {
	if r.ID == "" {
		return fmt.Errorf("report id is required")
	}
	payload, err := json.Marshal(r.Result)
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).ExecContext(ctx, `INSERT OR REPLACE INTO reports(id, idea, created_at, fallback, error, payload) VALUES(?,?,?,?,?,?)`,
		r.ID, r.Idea, r.CreatedAt.UTC().UnixNano(), r.Fallback, r.Error, string(payload))
	return err
}

func (s *sqliteStore) GetReport(ctx context.Context, id string) (api.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return api.Report{}, ErrNotFound
	}
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT id, idea, created_at, fallback, error, payload FROM reports
WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY (id = ?) DESC LIMIT 2`, id, len(id), id, id)
	if err != nil {
		return api.Report{}, err
	}
	defer rows.Close()
	var out []api.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return api.Report{}, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return api.Report{}, err
	}
	switch {
	case len(out) == 0:
		return api.Report{}, ErrNotFound
	case out[0].ID == id || len(out) == 1:
		return out[0], nil
	default:
		return api.Report{}, fmt.Errorf("%w: %q", ErrAmbiguous, id)
	}
}

func (s *sqliteStore) ListReports(ctx context.Context, q ReportQuery) ([]api.Report, error) {
	sqlq := `SELECT id, idea, created_at, fallback, error, payload FROM reports`
	conds := []string{}
	args := []any{}
	if !q.Since.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, q.Since.UTC().UnixNano())
	}
	if !q.Until.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, q.Until.UTC().UnixNano())
	}
	if len(conds) > 0 {
		sqlq += " WHERE " + strings.Join(conds, " AND ")
	}
	sqlq += " ORDER BY created_at DESC, id DESC"
	if q.Limit > 0 {
		sqlq += " LIMIT ?"
		args = append(args, q.Limit)
	}
	rows, err := s.conn(ctx).QueryContext(ctx, sqlq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) DeleteReports(ctx context.Context) (int64, error) {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM reports`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanReport(rows *sql.Rows) (api.Report, error) {
	var r api.Report
	var created int64
	var payload string
	if err := rows.Scan(&r.ID, &r.Idea, &created, &r.Fallback, &r.Error, &payload); err != nil {
		return api.Report{}, err
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	res, err := api.DecodeStoredResult([]byte(payload))
	if err != nil {
		return api.Report{}, fmt.Errorf("report %s: %w", r.ID, err)
	}
	r.Result = res
	return r, nil
}

// openSQLite connects to a SQLite database using modernc.org/sqlite driver and ensures schema exists.
func openSQLite(ctx context.Context, dsn string) (*Store, io.Closer, error) {
	path := expandPath(dsn)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if _, err := dbh.ExecContext(ctx, `PRAGMA busy_timeout=5000;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	s := &sqliteStore{db: dbh}
	return &Store{KV: s, Reports: s, Tx: s}, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS reports (
  id TEXT PRIMARY KEY,
  idea TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  fallback INTEGER NOT NULL DEFAULT 0,
  error TEXT NOT NULL DEFAULT '',
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_created_id ON reports(created_at DESC, id);
`)
	return err
}
