// Package storage persists finished crawl runs to SQLite and transcribes
// them to JSON/CSV. Profiles are stored as opaque, fully-formed records: the
// pipeline's output is serialized verbatim and never partially updated.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shopscope/shopscope/pkg/profile"
)

// ErrNoRuns is returned when no crawl has completed yet.
var ErrNoRuns = errors.New("no crawl runs recorded")

// Run describes one finished crawl.
type Run struct {
	ID           int64     `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	DomainsTotal int       `json:"domains_total"`
	StoresFound  int       `json:"stores_found"`
}

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id            INTEGER PRIMARY KEY,
  started_at    DATETIME NOT NULL,
  finished_at   DATETIME NOT NULL,
  domains_total INTEGER NOT NULL,
  stores_found  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS profiles (
  id           INTEGER PRIMARY KEY,
  run_id       INTEGER NOT NULL REFERENCES runs(id),
  domain       TEXT NOT NULL,
  platform     TEXT NOT NULL,
  description  TEXT,
  profile_json TEXT NOT NULL,
  created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_profiles_run ON profiles(run_id);
CREATE INDEX IF NOT EXISTS idx_profiles_domain ON profiles(domain);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// SaveRun records a finished crawl and every terminal profile it produced.
func (d *DB) SaveRun(ctx context.Context, startedAt, finishedAt time.Time, profiles []profile.StoreProfile) (int64, error) {
	storesFound := 0
	for i := range profiles {
		if profiles[i].Qualifying() {
			storesFound++
		}
	}

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs(started_at, finished_at, domains_total, stores_found) VALUES(?,?,?,?)`,
		startedAt.UTC(), finishedAt.UTC(), len(profiles), storesFound)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i := range profiles {
		var blob []byte
		blob, err = json.Marshal(&profiles[i])
		if err != nil {
			return 0, fmt.Errorf("marshaling profile for %s: %w", profiles[i].Domain, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO profiles(run_id, domain, platform, description, profile_json) VALUES(?,?,?,?,?)`,
			runID, profiles[i].Domain, profiles[i].Platform, profiles[i].Description, string(blob))
		if err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// LatestRun returns the most recent run, or ErrNoRuns.
func (d *DB) LatestRun(ctx context.Context) (Run, error) {
	var r Run
	err := d.sql.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, domains_total, stores_found FROM runs ORDER BY id DESC LIMIT 1`).
		Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.DomainsTotal, &r.StoresFound)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns all runs, most recent first.
func (d *DB) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, started_at, finished_at, domains_total, stores_found FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.DomainsTotal, &r.StoresFound); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ProfilesForRun returns the stored profiles of a run in insertion order.
// With qualifyingOnly set, records whose verdict is not "shopify" are
// filtered out.
func (d *DB) ProfilesForRun(ctx context.Context, runID int64, qualifyingOnly bool) ([]profile.StoreProfile, error) {
	query := `SELECT profile_json FROM profiles WHERE run_id = ?`
	args := []interface{}{runID}
	if qualifyingOnly {
		query += ` AND platform = ?`
		args = append(args, profile.VerdictShopify)
	}
	query += ` ORDER BY id`

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []profile.StoreProfile
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var p profile.StoreProfile
		if err := json.Unmarshal([]byte(blob), &p); err != nil {
			return nil, fmt.Errorf("corrupt profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
