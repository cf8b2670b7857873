package services

import (
	"commute-planner/internal/domain"
	"slices"
)

// Designate fills each person's nearest offices and each office's nearest
// people from the best duration of every routed pair. Ties keep roster
// order. Pairs without any successful mode are ignored.
func Designate(roster *domain.Roster, nearestOffices, nearestPersons int) {
	for _, p := range roster.People {
		ds := make([]domain.Designation, 0, len(roster.Offices))
		for _, o := range roster.Offices {
			if best, ok := p.Durations[o.Name].Best(); ok {
				ds = append(ds, domain.Designation{Name: o.Name, Mode: best.Mode, Minutes: best.Value})
			}
		}
		p.NearestOffices = nearest(ds, nearestOffices)
	}

	for _, o := range roster.Offices {
		ds := make([]domain.Designation, 0, len(roster.People))
		for _, p := range roster.People {
			if best, ok := p.Durations[o.Name].Best(); ok {
				ds = append(ds, domain.Designation{Name: p.Name, Mode: best.Mode, Minutes: best.Value})
			}
		}
		o.NearestPersons = nearest(ds, nearestPersons)
	}
}

func nearest(ds []domain.Designation, limit int) []domain.Designation {
	slices.SortStableFunc(ds, func(a, b domain.Designation) int {
		return a.Minutes - b.Minutes
	})
	if limit >= 0 && len(ds) > limit {
		ds = ds[:limit]
	}
	return ds
}
