package dto

import "time"

type PlaceResponse struct {
	Kind     string   `json:"kind"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Resolved bool     `json:"resolved"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	Geohash  string   `json:"geohash,omitempty"`
}

type ModeValueResponse struct {
	Mode  string `json:"mode"`
	Value int    `json:"value"`
}

// Rankings for one person/office pair, ascending.
type PairResponse struct {
	Person    string              `json:"person"`
	Office    string              `json:"office"`
	Distances []ModeValueResponse `json:"distances"`
	Durations []ModeValueResponse `json:"durations"`
}

type FailureResponse struct {
	Kind    string `json:"kind"`
	Entity  string `json:"entity"`
	Office  string `json:"office,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Message string `json:"message"`
}

type RunResponse struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Places     []PlaceResponse   `json:"places"`
	Pairs      []PairResponse    `json:"pairs"`
	Failures   []FailureResponse `json:"failures"`
}
