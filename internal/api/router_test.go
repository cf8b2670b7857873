package api

import (
	"commute-planner/internal/api/dto"
	"commute-planner/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeStore struct {
	run domain.RunRecord
	err error
}

func (f *fakeStore) SaveRun(context.Context, domain.RunRecord) error { return nil }

func (f *fakeStore) LatestRun(context.Context) (domain.RunRecord, error) {
	return f.run, f.err
}

func storedRun() domain.RunRecord {
	started := time.Date(2021, 10, 11, 7, 0, 0, 0, time.UTC)
	return domain.RunRecord{
		RunID:      "run-1",
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Places: []domain.PlaceRecord{
			{Kind: domain.PlaceOffice, Name: "o1", Resolved: true, Lat: 31.22, Lng: 121.5},
			{Kind: domain.PlacePerson, Name: "a", Resolved: true, Lat: 31.2, Lng: 121.45},
			{Kind: domain.PlacePerson, Name: "b"},
		},
		Rankings: []domain.RankingRecord{
			{Person: "a", Office: "o1", Metric: domain.MetricDistance, Position: 1, Mode: domain.ModeWalk, Value: 1200},
			{Person: "a", Office: "o1", Metric: domain.MetricDistance, Position: 2, Mode: domain.ModeTransport, Value: 5000},
			{Person: "a", Office: "o1", Metric: domain.MetricDuration, Position: 1, Mode: domain.ModeWalk, Value: 15},
			{Person: "a", Office: "o1", Metric: domain.MetricDuration, Position: 2, Mode: domain.ModeTransport, Value: 20},
			{Person: "c", Office: "o1", Metric: domain.MetricDuration, Position: 1, Mode: domain.ModeWalk, Value: 40},
		},
		Failures: []domain.FailureRecord{{Kind: domain.FailureLookup, Entity: "b", Message: "lookup failure"}},
	}
}

func TestHealth(t *testing.T) {
	h := NewRouter(&fakeStore{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != http.MethodGet {
		t.Fatalf("POST /health status = %d allow = %q", rec.Code, rec.Header().Get("Allow"))
	}
}

func TestLatestRun(t *testing.T) {
	h := NewRouter(&fakeStore{run: storedRun()})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/latest", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var res dto.RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if res.RunID != "run-1" || len(res.Places) != 3 || len(res.Failures) != 1 {
		t.Fatalf("unexpected response %+v", res)
	}
	if res.Places[2].Lat != nil {
		t.Errorf("unresolved place has coordinates: %+v", res.Places[2])
	}
	if len(res.Pairs) != 2 {
		t.Fatalf("pairs = %+v, want 2", res.Pairs)
	}
	a := res.Pairs[0]
	if a.Person != "a" || len(a.Distances) != 2 || len(a.Durations) != 2 {
		t.Fatalf("pair a = %+v", a)
	}
	if a.Durations[0].Mode != "walk" || a.Durations[0].Value != 15 {
		t.Errorf("best duration = %+v, want walk 15", a.Durations[0])
	}
}

func TestLatestRunPersonFilter(t *testing.T) {
	h := NewRouter(&fakeStore{run: storedRun()})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/latest?person=c", nil))

	var res dto.RunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Pairs) != 1 || res.Pairs[0].Person != "c" || len(res.Pairs[0].Distances) != 0 {
		t.Fatalf("pairs = %+v", res.Pairs)
	}
}

func TestLatestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "no runs", err: domain.ErrNoRuns, want: http.StatusNotFound},
		{name: "store failure", err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewRouter(&fakeStore{err: tt.err}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/latest", nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
