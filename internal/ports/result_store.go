package ports

import (
	"commute-planner/internal/domain"
	"context"
)

// Port: a boundary for persisting run results.
// Stored runs are never read back to skip map API calls.
type ResultStore interface {
	SaveRun(ctx context.Context, run domain.RunRecord) error
	// Return the most recently started run.
	LatestRun(ctx context.Context) (domain.RunRecord, error)
}
