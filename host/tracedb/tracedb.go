// Package tracedb stores simulator invocation traces in SQLite so runs can
// be compared offline.
package tracedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"runsched/host/sim"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT    NOT NULL,
	label      TEXT    NOT NULL,
	policy     TEXT    NOT NULL,
	start_tick INTEGER NOT NULL,
	ticks      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS invocations (
	run_id   INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq      INTEGER NOT NULL,
	idx      INTEGER NOT NULL,
	name     TEXT    NOT NULL,
	tick     INTEGER NOT NULL,
	due      INTEGER NOT NULL,
	lateness INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// Run describes one stored simulation
type Run struct {
	ID        int64
	CreatedAt time.Time
	Label     string
	Policy    string
	StartTick uint32
	Ticks     uint32
}

// DB is a trace database
type DB struct {
	db *sql.DB
}

// Open opens (or creates) a trace database at path.
// Use ":memory:" for an in-memory database (useful in tests).
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection: SQLite has a single writer and ":memory:" is per connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveRun stores a run and its invocations in one transaction and returns
// the new run ID
func (d *DB) SaveRun(ctx context.Context, run Run, trace []sim.Invocation) (int64, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, label, policy, start_tick, ticks) VALUES (?, ?, ?, ?, ?)`,
		run.CreatedAt.UTC().Format(time.RFC3339Nano), run.Label, run.Policy, run.StartTick, run.Ticks)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO invocations (run_id, seq, idx, name, tick, due, lateness) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for seq, inv := range trace {
		if _, err := stmt.ExecContext(ctx, id, seq, inv.Index, inv.Name, inv.Tick, inv.Due, inv.Lateness); err != nil {
			return 0, fmt.Errorf("insert invocation %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Runs lists stored runs, newest first
func (d *DB) Runs(ctx context.Context) ([]Run, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, created_at, label, policy, start_tick, ticks FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Label, &r.Policy, &r.StartTick, &r.Ticks); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("run %d created_at: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Invocations returns the trace of a run in dispatch order
func (d *DB) Invocations(ctx context.Context, runID int64) ([]sim.Invocation, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT idx, name, tick, due, lateness FROM invocations WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	var trace []sim.Invocation
	for rows.Next() {
		var inv sim.Invocation
		if err := rows.Scan(&inv.Index, &inv.Name, &inv.Tick, &inv.Due, &inv.Lateness); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		trace = append(trace, inv)
	}
	return trace, rows.Err()
}
