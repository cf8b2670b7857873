package services

import (
	"commute-planner/internal/domain"
	"commute-planner/internal/ports"
	"context"

	"github.com/sirupsen/logrus"
)

// ResolveAll geocodes every office, then every person, one at a time.
// Entities that fail stay unresolved and are returned as failures.
func ResolveAll(ctx context.Context, roster *domain.Roster, geocoder ports.Geocoder) []domain.Failure {
	var failures []domain.Failure

	for _, o := range roster.Offices {
		if f, ok := resolve(ctx, &o.Place, geocoder); !ok {
			failures = append(failures, f)
		}
	}
	for _, p := range roster.People {
		if f, ok := resolve(ctx, &p.Place, geocoder); !ok {
			failures = append(failures, f)
		}
	}

	return failures
}

func resolve(ctx context.Context, place *domain.Place, geocoder ports.Geocoder) (domain.Failure, bool) {
	log := logrus.WithField("name", place.Name)

	if place.Resolved {
		return domain.Failure{}, true
	}

	c, err := geocoder.Lookup(ctx, place.GeocodeURL)
	if err == nil {
		err = place.Resolve(c)
	}
	if err != nil {
		log.WithError(err).Warnf("cannot geocode %q", place.Address)
		return domain.Failure{Kind: domain.FailureLookup, Entity: place.Name, Err: err}, false
	}

	log.Debugf("geocoded to %s", c)
	return domain.Failure{}, true
}
