package ports

import "commute-planner/internal/domain"

// Port: a boundary for reading roster rows and writing designations back.
type RosterSource interface {
	// Read people and office rows.
	Load() (domain.RosterRows, error)
}

// Optional extension of RosterSource that can persist designations.
type RosterWriter interface {
	WriteResults(roster *domain.Roster, outputPath string) error
}
