package services

import (
	"commute-planner/internal/adapters/baidu"
	"commute-planner/internal/adapters/mock"
	"commute-planner/internal/domain"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

type staticSource struct{ rows domain.RosterRows }

func (s staticSource) Load() (domain.RosterRows, error) { return s.rows, nil }

type captureReporter struct{ got *domain.RunResult }

func (c *captureReporter) Report(r *domain.RunResult) error {
	c.got = r
	return nil
}

type memoryStore struct{ runs []domain.RunRecord }

func (m *memoryStore) SaveRun(_ context.Context, r domain.RunRecord) error {
	m.runs = append(m.runs, r)
	return nil
}

func (m *memoryStore) LatestRun(context.Context) (domain.RunRecord, error) {
	if len(m.runs) == 0 {
		return domain.RunRecord{}, domain.ErrNoRuns
	}
	return m.runs[len(m.runs)-1], nil
}

// fakeBaidu serves place search by address and fixed walking/transit routes.
func fakeBaidu(t *testing.T) *httptest.Server {
	t.Helper()

	places := map[string]string{
		"person-addr": `{"status":0,"results":[{"name":"home","location":{"lat":31.20,"lng":121.45}}]}`,
		"office-addr": `{"status":0,"results":[{"name":"office","location":{"lat":31.22,"lng":121.50}}]}`,
		"nowhere":     `{"status":0,"results":[]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/place/v2/search", func(w http.ResponseWriter, r *http.Request) {
		body, ok := places[r.URL.Query().Get("query")]
		if !ok {
			body = `{"status":0,"results":[]}`
		}
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/directionlite/v1/walking", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("origin") != "31.2,121.45" || r.URL.Query().Get("destination") != "31.22,121.5" {
			t.Errorf("unexpected walking query %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"status":0,"result":{"routes":[{"distance":1200,"duration":900}]}}`))
	})
	mux.HandleFunc("/directionlite/v1/transit", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":0,"result":{"routes":[{"distance":5000,"duration":1200}]}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPipelineEndToEnd(t *testing.T) {
	srv := fakeBaidu(t)

	client, err := baidu.NewClient(baidu.Options{
		Host:      srv.URL,
		APIKey:    "AK",
		SecretKey: "SK",
		Timeout:   time.Second,
		Clock:     func() time.Time { return time.Unix(1633906800, 0) },
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	reporter := &captureReporter{}
	store := &memoryStore{}

	p := &Pipeline{
		Source: staticSource{rows: domain.RosterRows{
			People: []domain.RosterRow{
				{Name: "person", Address: "person-addr", CanDrive: true},
				{Name: "lost", Address: "nowhere", CanDrive: true},
			},
			Offices: []domain.RosterRow{{Name: "office", Address: "office-addr"}},
		}},
		Geocoder: client,
		Router:   NewRouter(client, nil, 1),
		Reporter: reporter,
		Store:    store,
		Config:   PipelineConfig{Region: "上海", NearestOffices: 10, NearestPersons: 20},
	}

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if reporter.got != result {
		t.Fatal("reporter did not receive the run result")
	}

	person := result.Roster.People[0]
	wantDur := domain.Ranking{{Mode: domain.ModeWalk, Value: 15}, {Mode: domain.ModeTransport, Value: 20}}
	if !reflect.DeepEqual(person.Durations["office"], wantDur) {
		t.Errorf("durations = %v, want %v", person.Durations["office"], wantDur)
	}
	wantDist := domain.Ranking{{Mode: domain.ModeWalk, Value: 1200}, {Mode: domain.ModeTransport, Value: 5000}}
	if !reflect.DeepEqual(person.Distances["office"], wantDist) {
		t.Errorf("distances = %v, want %v", person.Distances["office"], wantDist)
	}

	lost := result.Roster.People[1]
	if lost.Resolved || len(lost.Durations) != 0 {
		t.Errorf("unresolved person was routed: %+v", lost)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("failures = %+v, want one lookup failure", result.Failures)
	}
	if f := result.Failures[0]; f.Kind != domain.FailureLookup || f.Entity != "lost" || !errors.Is(f.Err, domain.ErrLookupFailure) {
		t.Errorf("unexpected failure %+v", f)
	}

	wantNearest := []domain.Designation{{Name: "office", Mode: domain.ModeWalk, Minutes: 15}}
	if !reflect.DeepEqual(person.NearestOffices, wantNearest) {
		t.Errorf("NearestOffices = %+v", person.NearestOffices)
	}

	if len(store.runs) != 1 || store.runs[0].RunID != result.RunID {
		t.Fatalf("store runs = %+v", store.runs)
	}
	if got := len(store.runs[0].Rankings); got != 4 {
		t.Errorf("stored rankings = %d, want 4", got)
	}
}

func TestResolveAllExcludesZeroResults(t *testing.T) {
	geo := &mock.MockGeocoder{Coords: map[string]domain.Coordinate{
		"o": {Lat: 31.22, Lng: 121.50},
		"a": {Lat: 31.20, Lng: 121.45},
	}}
	roster, _ := BuildRoster(domain.RosterRows{
		People:  []domain.RosterRow{{Name: "A", Address: "a"}, {Name: "B", Address: "b"}},
		Offices: []domain.RosterRow{{Name: "O", Address: "o"}},
	}, geo, "上海")

	failures := ResolveAll(context.Background(), roster, geo)
	if len(failures) != 1 || failures[0].Entity != "B" {
		t.Fatalf("failures = %+v, want B only", failures)
	}

	provider := mock.NewMockRouteProvider([]mock.MockRoute{
		{Mode: domain.ModeWalk, Meters: 1, Seconds: 60},
		{Mode: domain.ModeTransport, Meters: 2, Seconds: 120},
	})
	if _, err := NewRouter(provider, nil, 1).RouteAll(context.Background(), roster); err != nil {
		t.Fatalf("RouteAll() error = %v", err)
	}
	if n := len(provider.Calls()); n != 2 {
		t.Fatalf("provider called %d times, want 2 (A only)", n)
	}
	if len(roster.People[1].Durations) != 0 {
		t.Fatal("unresolved person B has rankings")
	}
}

func TestBuildRosterSignsOnce(t *testing.T) {
	roster, _ := BuildRoster(domain.RosterRows{
		People:  []domain.RosterRow{{Name: "A", Address: "a", CanDrive: false}},
		Offices: []domain.RosterRow{{Name: "O", Address: "o"}},
	}, &mock.MockGeocoder{}, "上海")

	if roster.People[0].GeocodeURL != "a" || roster.Offices[0].GeocodeURL != "o" {
		t.Fatalf("unexpected geocode urls: %q %q", roster.People[0].GeocodeURL, roster.Offices[0].GeocodeURL)
	}
	if roster.People[0].CanDrive {
		t.Fatal("CanDrive not carried over")
	}
}

func TestToRecord(t *testing.T) {
	p := resolvedPerson(t, "a", true)
	o := resolvedOffice(t, "o1")
	p.SetRankings("o1",
		domain.Ranking{{Mode: domain.ModeWalk, Value: 1200}},
		domain.Ranking{{Mode: domain.ModeWalk, Value: 15}, {Mode: domain.ModeTransport, Value: 20}},
	)

	rec := ToRecord(&domain.RunResult{
		RunID:  "run-1",
		Roster: &domain.Roster{People: []*domain.Person{p}, Offices: []*domain.Office{o}},
		Failures: []domain.Failure{
			{Kind: domain.FailureRoute, Entity: "a", Office: "o1", Mode: domain.ModeRide, Err: domain.ErrRouteFailure},
		},
	})

	if len(rec.Places) != 2 || rec.Places[0].Kind != domain.PlaceOffice || rec.Places[1].Kind != domain.PlacePerson {
		t.Fatalf("places = %+v", rec.Places)
	}
	if rec.Places[1].Geohash != "wtw37xv1" {
		t.Errorf("geohash = %q", rec.Places[1].Geohash)
	}
	if len(rec.Rankings) != 3 {
		t.Fatalf("rankings = %+v", rec.Rankings)
	}
	last := rec.Rankings[2]
	if last.Metric != domain.MetricDuration || last.Position != 2 || last.Mode != domain.ModeTransport || last.Value != 20 {
		t.Errorf("last ranking = %+v", last)
	}
	if len(rec.Failures) != 1 || rec.Failures[0].Message != "route failure" {
		t.Errorf("failures = %+v", rec.Failures)
	}
}
