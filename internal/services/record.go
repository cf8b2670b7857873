package services

import (
	"commute-planner/internal/domain"

	"github.com/mmcloughlin/geohash"
)

const geohashPrecision = 8

// ToRecord flattens a run into its storable form.
func ToRecord(result *domain.RunResult) domain.RunRecord {
	rec := domain.RunRecord{
		RunID:      result.RunID,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	}

	if r := result.Roster; r != nil {
		for _, o := range r.Offices {
			rec.Places = append(rec.Places, placeRecord(domain.PlaceOffice, &o.Place))
		}
		for _, p := range r.People {
			rec.Places = append(rec.Places, placeRecord(domain.PlacePerson, &p.Place))

			for _, o := range r.Offices {
				rec.Rankings = appendRanking(rec.Rankings, p.Name, o.Name, domain.MetricDistance, p.Distances[o.Name])
				rec.Rankings = appendRanking(rec.Rankings, p.Name, o.Name, domain.MetricDuration, p.Durations[o.Name])
			}
		}
	}

	for _, f := range result.Failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		rec.Failures = append(rec.Failures, domain.FailureRecord{
			Kind:    f.Kind,
			Entity:  f.Entity,
			Office:  f.Office,
			Mode:    f.Mode,
			Message: msg,
		})
	}

	return rec
}

func placeRecord(kind string, p *domain.Place) domain.PlaceRecord {
	pr := domain.PlaceRecord{
		Kind:     kind,
		Name:     p.Name,
		Address:  p.Address,
		Resolved: p.Resolved,
	}
	if p.Resolved {
		pr.Lat = p.Coordinate.Lat
		pr.Lng = p.Coordinate.Lng
		pr.Geohash = geohash.EncodeWithPrecision(p.Coordinate.Lat, p.Coordinate.Lng, geohashPrecision)
	}
	return pr
}

func appendRanking(out []domain.RankingRecord, person, office, metric string, r domain.Ranking) []domain.RankingRecord {
	for i, m := range r {
		out = append(out, domain.RankingRecord{
			Person:   person,
			Office:   office,
			Metric:   metric,
			Position: i + 1,
			Mode:     m.Mode,
			Value:    m.Value,
		})
	}
	return out
}
