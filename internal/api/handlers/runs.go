package handlers

import (
	"commute-planner/internal/api/dto"
	"commute-planner/internal/domain"
	"commute-planner/internal/ports"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

// RunHandler exposes stored run results read-only.
type RunHandler struct {
	Store ports.ResultStore
}

// Latest returns the most recent run. ?person= narrows pairs to one person.
func (h *RunHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	run, err := h.Store.LatestRun(r.Context())
	if errors.Is(err, domain.ErrNoRuns) {
		writeError(w, r, http.StatusNotFound, "no runs stored")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("latest run failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toRunResponse(run, r.URL.Query().Get("person")))
}

func toRunResponse(run domain.RunRecord, person string) dto.RunResponse {
	res := dto.RunResponse{
		RunID:      run.RunID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Places:     make([]dto.PlaceResponse, 0, len(run.Places)),
		Pairs:      []dto.PairResponse{},
		Failures:   make([]dto.FailureResponse, 0, len(run.Failures)),
	}

	for _, p := range run.Places {
		pr := dto.PlaceResponse{
			Kind:     p.Kind,
			Name:     p.Name,
			Address:  p.Address,
			Resolved: p.Resolved,
			Geohash:  p.Geohash,
		}
		if p.Resolved {
			lat, lng := p.Lat, p.Lng
			pr.Lat, pr.Lng = &lat, &lng
		}
		res.Places = append(res.Places, pr)
	}

	// Rankings are stored grouped by pair, distance then duration.
	index := make(map[[2]string]int)
	for _, rk := range run.Rankings {
		if person != "" && rk.Person != person {
			continue
		}
		key := [2]string{rk.Person, rk.Office}
		i, ok := index[key]
		if !ok {
			i = len(res.Pairs)
			index[key] = i
			res.Pairs = append(res.Pairs, dto.PairResponse{
				Person:    rk.Person,
				Office:    rk.Office,
				Distances: []dto.ModeValueResponse{},
				Durations: []dto.ModeValueResponse{},
			})
		}

		mv := dto.ModeValueResponse{Mode: string(rk.Mode), Value: rk.Value}
		switch rk.Metric {
		case domain.MetricDistance:
			res.Pairs[i].Distances = append(res.Pairs[i].Distances, mv)
		case domain.MetricDuration:
			res.Pairs[i].Durations = append(res.Pairs[i].Durations, mv)
		}
	}

	for _, f := range run.Failures {
		res.Failures = append(res.Failures, dto.FailureResponse{
			Kind:    string(f.Kind),
			Entity:  f.Entity,
			Office:  f.Office,
			Mode:    string(f.Mode),
			Message: f.Message,
		})
	}

	return res
}
