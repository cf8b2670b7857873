package repositories

import (
	"commute-planner/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQL-backed implementation of the ResultStore port.
type SQLResultStore struct {
	DB      *sql.DB
	dialect Dialect
}

func NewSQLiteResultStore(db *sql.DB) *SQLResultStore {
	return &SQLResultStore{DB: db, dialect: SQLite}
}

func NewPostgresResultStore(db *sql.DB) *SQLResultStore {
	return &SQLResultStore{DB: db, dialect: Postgres}
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *SQLResultStore) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Persist one run and all of its rows in a single transaction.
func (s *SQLResultStore) SaveRun(ctx context.Context, run domain.RunRecord) error {
	if s.DB == nil {
		return errors.New("sql result store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	runQuery := `
	INSERT INTO runs (
		run_id,
		started_at,
		finished_at
	)
	VALUES (?, ?, ?);
	`
	if _, err := tx.ExecContext(ctx, s.rebind(runQuery),
		run.RunID, formatTime(run.StartedAt), formatTime(run.FinishedAt),
	); err != nil {
		return fmt.Errorf("save run: insert run_id=%s: %w", run.RunID, err)
	}

	placeQuery := `
	INSERT INTO places (
		run_id, seq, kind, name, address, resolved, lat, lng, geohash
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	err = insertAll(ctx, tx, s.rebind(placeQuery), run.Places, func(i int, p domain.PlaceRecord) []any {
		return []any{run.RunID, i, p.Kind, p.Name, p.Address, p.Resolved, p.Lat, p.Lng, p.Geohash}
	})
	if err != nil {
		return fmt.Errorf("save run: places: %w", err)
	}

	rankingQuery := `
	INSERT INTO rankings (
		run_id, seq, person, office, metric, position, mode, metric_value
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	err = insertAll(ctx, tx, s.rebind(rankingQuery), run.Rankings, func(i int, r domain.RankingRecord) []any {
		return []any{run.RunID, i, r.Person, r.Office, r.Metric, r.Position, string(r.Mode), r.Value}
	})
	if err != nil {
		return fmt.Errorf("save run: rankings: %w", err)
	}

	failureQuery := `
	INSERT INTO failures (
		run_id, seq, kind, entity, office, mode, message
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	err = insertAll(ctx, tx, s.rebind(failureQuery), run.Failures, func(i int, f domain.FailureRecord) []any {
		return []any{run.RunID, i, string(f.Kind), f.Entity, f.Office, string(f.Mode), f.Message}
	})
	if err != nil {
		return fmt.Errorf("save run: failures: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit tx: %w", err)
	}

	return nil
}

func insertAll[T any](ctx context.Context, tx *sql.Tx, query string, items []T, args func(int, T) []any) error {
	if len(items) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range items {
		if _, err := stmt.ExecContext(ctx, args(i, item)...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return nil
}

// Return the run with the latest start time.
func (s *SQLResultStore) LatestRun(ctx context.Context) (domain.RunRecord, error) {
	if s.DB == nil {
		return domain.RunRecord{}, errors.New("sql result store: DB is nil")
	}

	var run domain.RunRecord
	var started, finished string

	query := `
	SELECT
		run_id,
		started_at,
		finished_at
	FROM runs
	ORDER BY started_at DESC
	LIMIT 1;
	`
	err := s.DB.QueryRowContext(ctx, query).Scan(&run.RunID, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RunRecord{}, domain.ErrNoRuns
	}
	if err != nil {
		return domain.RunRecord{}, fmt.Errorf("latest run: query runs table: %w", err)
	}

	if run.StartedAt, err = parseTime(started); err != nil {
		return domain.RunRecord{}, fmt.Errorf("latest run: %w", err)
	}
	if run.FinishedAt, err = parseTime(finished); err != nil {
		return domain.RunRecord{}, fmt.Errorf("latest run: %w", err)
	}

	if run.Places, err = s.listPlaces(ctx, run.RunID); err != nil {
		return domain.RunRecord{}, err
	}
	if run.Rankings, err = s.listRankings(ctx, run.RunID); err != nil {
		return domain.RunRecord{}, err
	}
	if run.Failures, err = s.listFailures(ctx, run.RunID); err != nil {
		return domain.RunRecord{}, err
	}

	return run, nil
}

func (s *SQLResultStore) listPlaces(ctx context.Context, runID string) ([]domain.PlaceRecord, error) {
	query := `
	SELECT kind, name, address, resolved, lat, lng, geohash
	FROM places
	WHERE run_id = ?
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, s.rebind(query), runID)
	if err != nil {
		return nil, fmt.Errorf("latest run: query places table: %w", err)
	}
	defer rows.Close()

	var out []domain.PlaceRecord
	for rows.Next() {
		var p domain.PlaceRecord
		if err := rows.Scan(&p.Kind, &p.Name, &p.Address, &p.Resolved, &p.Lat, &p.Lng, &p.Geohash); err != nil {
			return nil, fmt.Errorf("latest run: scan place: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("latest run: place iteration: %w", err)
	}
	return out, nil
}

func (s *SQLResultStore) listRankings(ctx context.Context, runID string) ([]domain.RankingRecord, error) {
	query := `
	SELECT person, office, metric, position, mode, metric_value
	FROM rankings
	WHERE run_id = ?
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, s.rebind(query), runID)
	if err != nil {
		return nil, fmt.Errorf("latest run: query rankings table: %w", err)
	}
	defer rows.Close()

	var out []domain.RankingRecord
	for rows.Next() {
		var r domain.RankingRecord
		var mode string
		if err := rows.Scan(&r.Person, &r.Office, &r.Metric, &r.Position, &mode, &r.Value); err != nil {
			return nil, fmt.Errorf("latest run: scan ranking: %w", err)
		}
		r.Mode = domain.TransportMode(mode)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("latest run: ranking iteration: %w", err)
	}
	return out, nil
}

func (s *SQLResultStore) listFailures(ctx context.Context, runID string) ([]domain.FailureRecord, error) {
	query := `
	SELECT kind, entity, office, mode, message
	FROM failures
	WHERE run_id = ?
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, s.rebind(query), runID)
	if err != nil {
		return nil, fmt.Errorf("latest run: query failures table: %w", err)
	}
	defer rows.Close()

	var out []domain.FailureRecord
	for rows.Next() {
		var f domain.FailureRecord
		var kind, mode string
		if err := rows.Scan(&kind, &f.Entity, &f.Office, &mode, &f.Message); err != nil {
			return nil, fmt.Errorf("latest run: scan failure: %w", err)
		}
		f.Kind = domain.FailureKind(kind)
		f.Mode = domain.TransportMode(mode)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("latest run: failure iteration: %w", err)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}
