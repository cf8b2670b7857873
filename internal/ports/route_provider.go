package ports

import (
	"commute-planner/internal/domain"
	"context"
)

// Contract for retrieving travel distance and duration between coordinates.
type RouteProvider interface {
	// Return distance and duration for one transport mode.
	Route(ctx context.Context, mode domain.TransportMode, origin, destination domain.Coordinate) (domain.RouteMetrics, error)
}
