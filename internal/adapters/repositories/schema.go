package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Dialect selects placeholder style for the SQL result store.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// InitSchema creates the run tables. Column types are chosen so the same
// statements work on SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL
	);
	`

	createPlacesQuery := `
	CREATE TABLE IF NOT EXISTS places (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		resolved BOOLEAN NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		geohash TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	`

	createRankingsQuery := `
	CREATE TABLE IF NOT EXISTS rankings (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		seq INTEGER NOT NULL,
		person TEXT NOT NULL,
		office TEXT NOT NULL,
		metric TEXT NOT NULL,
		position INTEGER NOT NULL,
		mode TEXT NOT NULL,
		metric_value INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	`

	createFailuresQuery := `
	CREATE TABLE IF NOT EXISTS failures (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		entity TEXT NOT NULL,
		office TEXT NOT NULL,
		mode TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_runs_started_at
	ON runs(started_at);
	`

	statements := []string{
		createRunsQuery,
		createPlacesQuery,
		createRankingsQuery,
		createFailuresQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
