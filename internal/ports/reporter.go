package ports

import "commute-planner/internal/domain"

// Port: presents the outcome of a run.
type Reporter interface {
	Report(result *domain.RunResult) error
}
