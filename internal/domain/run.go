package domain

import (
	"errors"
	"time"
)

// Kind of entity or pair a Failure belongs to.
type FailureKind string

const (
	FailureLookup    FailureKind = "lookup"
	FailureRoute     FailureKind = "route"
	FailureDuplicate FailureKind = "duplicate"
)

// A reported, non-fatal failure. Lookup failures name the entity only;
// route failures also name the office and mode.
type Failure struct {
	Kind   FailureKind
	Entity string
	Office string
	Mode   TransportMode
	Err    error
}

// Transport reports whether the failure came from the HTTP layer.
func (f Failure) Transport() bool { return errors.Is(f.Err, ErrTransportFailure) }

// Outcome of one pipeline run, held in memory.
type RunResult struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Roster     *Roster
	Failures   []Failure
}

// Flat, storable form of a run.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Places     []PlaceRecord
	Rankings   []RankingRecord
	Failures   []FailureRecord
}

const (
	PlacePerson = "person"
	PlaceOffice = "office"

	MetricDistance = "distance"
	MetricDuration = "duration"
)

type PlaceRecord struct {
	Kind     string
	Name     string
	Address  string
	Resolved bool
	Lat      float64
	Lng      float64
	Geohash  string
}

type RankingRecord struct {
	Person   string
	Office   string
	Metric   string
	Position int
	Mode     TransportMode
	Value    int
}

type FailureRecord struct {
	Kind    FailureKind
	Entity  string
	Office  string
	Mode    TransportMode
	Message string
}
