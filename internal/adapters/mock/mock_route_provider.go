package mock

import (
	"commute-planner/internal/domain"
	"context"
	"fmt"
	"sync"
)

type MockRoute struct {
	Mode    domain.TransportMode
	Meters  int
	Seconds int
	Err     error
}

// MockRouteProvider answers every origin/destination pair with the
// configured per-mode metrics and records the modes it was asked for.
type MockRouteProvider struct {
	mu    sync.Mutex
	m     map[domain.TransportMode]MockRoute
	calls []domain.TransportMode
}

func NewMockRouteProvider(routes []MockRoute) *MockRouteProvider {
	m := make(map[domain.TransportMode]MockRoute, len(routes))
	for _, r := range routes {
		m[r.Mode] = r
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) Route(
	ctx context.Context,
	mode domain.TransportMode,
	origin, destination domain.Coordinate,
) (domain.RouteMetrics, error) {
	p.mu.Lock()
	p.calls = append(p.calls, mode)
	p.mu.Unlock()

	r, ok := p.m[mode]
	if !ok {
		return domain.RouteMetrics{}, fmt.Errorf("%w: missing mode %q", domain.ErrRouteFailure, mode)
	}
	if r.Err != nil {
		return domain.RouteMetrics{}, r.Err
	}

	return domain.RouteMetrics{DistanceMeters: r.Meters, DurationMinutes: r.Seconds / 60}, nil
}

// Calls returns the modes requested so far, in order.
func (p *MockRouteProvider) Calls() []domain.TransportMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.TransportMode(nil), p.calls...)
}

// MockGeocoder resolves addresses from a fixed table. The signed URL is the
// address itself so lookups stay deterministic.
type MockGeocoder struct {
	Coords map[string]domain.Coordinate
}

func (g *MockGeocoder) SignLookup(address, region string) string { return address }

func (g *MockGeocoder) Lookup(ctx context.Context, signedURL string) (domain.Coordinate, error) {
	c, ok := g.Coords[signedURL]
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("%w: no place results for %q", domain.ErrLookupFailure, signedURL)
	}
	return c, nil
}
