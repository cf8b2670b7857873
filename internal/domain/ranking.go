package domain

import "slices"

// Distance in meters and duration in whole minutes for a single mode.
type RouteMetrics struct {
	DistanceMeters  int
	DurationMinutes int
}

// One entry of a ranking: a transport mode and its metric value.
type ModeMetric struct {
	Mode  TransportMode
	Value int
}

// Transport modes sorted ascending by a metric.
type Ranking []ModeMetric

// Rank sorts the entries ascending by value.
// Equal values keep the order in which they were supplied.
func Rank(entries []ModeMetric) Ranking {
	out := make(Ranking, len(entries))
	copy(out, entries)
	slices.SortStableFunc(out, func(a, b ModeMetric) int {
		return a.Value - b.Value
	})
	return out
}

// Best returns the first (lowest) entry.
func (r Ranking) Best() (ModeMetric, bool) {
	if len(r) == 0 {
		return ModeMetric{}, false
	}
	return r[0], true
}
