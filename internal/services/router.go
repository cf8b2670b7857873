package services

import (
	"commute-planner/internal/domain"
	"commute-planner/internal/ports"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Router evaluates every configured transport mode between people and offices.
type Router struct {
	provider ports.RouteProvider
	modes    []domain.TransportMode
	workers  int
}

func NewRouter(provider ports.RouteProvider, modes []domain.TransportMode, workers int) *Router {
	if len(modes) == 0 {
		modes = domain.DefaultModes
	}
	if workers < 1 {
		workers = 1
	}
	return &Router{provider: provider, modes: modes, workers: workers}
}

// RouteOffice ranks the modes from person to office by distance and by
// duration and stores both rankings on the person under the office name.
// A mode that fails is left out of both rankings and reported.
func (r *Router) RouteOffice(ctx context.Context, p *domain.Person, o *domain.Office) []domain.Failure {
	var failures []domain.Failure

	distances := make([]domain.ModeMetric, 0, len(r.modes))
	durations := make([]domain.ModeMetric, 0, len(r.modes))

	for _, mode := range r.modes {
		if mode == domain.ModeDrive && !p.CanDrive {
			continue
		}

		m, err := r.provider.Route(ctx, mode, p.Coordinate, o.Coordinate)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"person": p.Name,
				"office": o.Name,
				"mode":   mode,
			}).WithError(err).Warn("route unavailable")

			failures = append(failures, domain.Failure{
				Kind:   domain.FailureRoute,
				Entity: p.Name,
				Office: o.Name,
				Mode:   mode,
				Err:    err,
			})
			continue
		}

		distances = append(distances, domain.ModeMetric{Mode: mode, Value: m.DistanceMeters})
		durations = append(durations, domain.ModeMetric{Mode: mode, Value: m.DurationMinutes})
	}

	p.SetRankings(o.Name, domain.Rank(distances), domain.Rank(durations))

	return failures
}

// RoutePerson routes one person to each office in order.
func (r *Router) RoutePerson(ctx context.Context, p *domain.Person, offices []*domain.Office) []domain.Failure {
	var failures []domain.Failure
	for _, o := range offices {
		failures = append(failures, r.RouteOffice(ctx, p, o)...)
	}
	return failures
}

// RouteAll routes every resolved person to every resolved office.
// People are spread over at most r.workers goroutines; each goroutine
// only writes to its own person. Failures come back in roster order.
func (r *Router) RouteAll(ctx context.Context, roster *domain.Roster) ([]domain.Failure, error) {
	people := roster.ResolvedPeople()
	offices := roster.ResolvedOffices()

	perPerson := make([][]domain.Failure, len(people))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, p := range people {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perPerson[i] = r.RoutePerson(gctx, p, offices)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("route all: %w", err)
	}

	var failures []domain.Failure
	for _, f := range perPerson {
		failures = append(failures, f...)
	}
	return failures, nil
}
