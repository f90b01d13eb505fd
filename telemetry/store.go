// Package telemetry persists per-run summaries to a local SQLite
// database so batch simulations can be compared after the fact.
package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// RunSummary is one finished run.
type RunSummary struct {
	RunID       string
	Seed        int64
	StartedAt   time.Time
	FinishedAt  time.Time
	Turns       int64
	Passes      int64
	Cleanups    int64
	Removed     int64
	PlayerAlive bool
}

// Store wraps the runs database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("telemetry: empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL for append-style run summaries; NORMAL is plenty durable for
	// a local stats file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id       TEXT PRIMARY KEY,
			seed         INTEGER NOT NULL,
			started_at   TEXT NOT NULL,
			finished_at  TEXT NOT NULL,
			turns        INTEGER NOT NULL,
			passes       INTEGER NOT NULL,
			cleanups     INTEGER NOT NULL,
			removed      INTEGER NOT NULL,
			player_alive INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_metrics (
			run_id TEXT NOT NULL,
			name   TEXT NOT NULL,
			value  REAL NOT NULL,
			PRIMARY KEY (run_id, name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}
	return nil
}

// RecordRun inserts one finished run and its metric snapshot.
func (s *Store) RecordRun(ctx context.Context, run RunSummary, snapshot map[string]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer tx.Rollback()

	alive := 0
	if run.PlayerAlive {
		alive = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, seed, started_at, finished_at, turns, passes, cleanups, removed, player_alive)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Seed,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Turns, run.Passes, run.Cleanups, run.Removed, alive)
	if err != nil {
		return fmt.Errorf("telemetry: insert run: %w", err)
	}

	for name, value := range snapshot {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_metrics (run_id, name, value) VALUES (?, ?, ?)`,
			run.RunID, name, value); err != nil {
			return fmt.Errorf("telemetry: insert metric: %w", err)
		}
	}
	return tx.Commit()
}

// Runs returns recorded runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, seed, started_at, finished_at, turns, passes, cleanups, removed, player_alive
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var started, finished string
		var alive int
		if err := rows.Scan(&r.RunID, &r.Seed, &started, &finished,
			&r.Turns, &r.Passes, &r.Cleanups, &r.Removed, &alive); err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		r.PlayerAlive = alive != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// Metrics returns the metric snapshot stored for a run.
func (s *Store) Metrics(ctx context.Context, runID string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value FROM run_metrics WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
		out[name] = value
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
