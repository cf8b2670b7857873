package domain

import "fmt"

// Named address with a signed geocoding URL and a lazily resolved coordinate.
// The URL is fixed at construction; the coordinate is set at most once.
type Place struct {
	Name       string
	Address    string
	GeocodeURL string
	Coordinate Coordinate
	Resolved   bool
}

// Resolve records the geocoded coordinate.
// A (0, 0) result is rejected as a lookup failure.
func (p *Place) Resolve(c Coordinate) error {
	if p.Resolved {
		return fmt.Errorf("resolve %q: %w", p.Name, ErrAlreadyResolved)
	}
	if c.IsZero() {
		return fmt.Errorf("resolve %q: %w: zero coordinate", p.Name, ErrLookupFailure)
	}
	p.Coordinate = c
	p.Resolved = true
	return nil
}

// Office a person may be routed to.
type Office struct {
	Place
	NearestPersons []Designation
}

func NewOffice(name, address, geocodeURL string) *Office {
	return &Office{
		Place: Place{Name: name, Address: address, GeocodeURL: geocodeURL},
	}
}

// Person owns two per-office rankings, keyed by office name.
// Both maps are created per instance and only ever grow.
type Person struct {
	Place
	CanDrive       bool
	Distances      map[string]Ranking
	Durations      map[string]Ranking
	NearestOffices []Designation
}

func NewPerson(name, address, geocodeURL string, canDrive bool) *Person {
	return &Person{
		Place:     Place{Name: name, Address: address, GeocodeURL: geocodeURL},
		CanDrive:  canDrive,
		Distances: make(map[string]Ranking),
		Durations: make(map[string]Ranking),
	}
}

// SetRankings stores the rankings computed for one office.
func (p *Person) SetRankings(office string, distances, durations Ranking) {
	p.Distances[office] = distances
	p.Durations[office] = durations
}

// Best duration entry for the counterpart named by Name.
type Designation struct {
	Name    string
	Mode    TransportMode
	Minutes int
}
