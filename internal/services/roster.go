package services

import (
	"commute-planner/internal/domain"
	"commute-planner/internal/ports"
	"fmt"

	"github.com/sirupsen/logrus"
)

// BuildRoster turns raw rows into people and offices, signing each
// geocoding URL once. Sheet order is preserved. Names must be unique per
// sheet: later rows reusing a name are skipped and reported.
func BuildRoster(rows domain.RosterRows, geocoder ports.Geocoder, region string) (*domain.Roster, []domain.Failure) {
	roster := &domain.Roster{
		People:  make([]*domain.Person, 0, len(rows.People)),
		Offices: make([]*domain.Office, 0, len(rows.Offices)),
	}

	var failures []domain.Failure
	for _, r := range unique(rows.Offices, "office", &failures) {
		roster.Offices = append(roster.Offices, domain.NewOffice(r.Name, r.Address, geocoder.SignLookup(r.Address, region)))
	}
	for _, r := range unique(rows.People, "person", &failures) {
		roster.People = append(roster.People, domain.NewPerson(r.Name, r.Address, geocoder.SignLookup(r.Address, region), r.CanDrive))
	}

	return roster, failures
}

func unique(rows []domain.RosterRow, kind string, failures *[]domain.Failure) []domain.RosterRow {
	seen := make(map[string]struct{}, len(rows))
	out := make([]domain.RosterRow, 0, len(rows))

	for _, r := range rows {
		if _, dup := seen[r.Name]; dup {
			logrus.WithField(kind, r.Name).Warnf("duplicate %s name, row with address %q skipped", kind, r.Address)
			*failures = append(*failures, domain.Failure{
				Kind:   domain.FailureDuplicate,
				Entity: r.Name,
				Err:    fmt.Errorf("%s %q at %q: %w", kind, r.Name, r.Address, domain.ErrDuplicateName),
			})
			continue
		}
		seen[r.Name] = struct{}{}
		out = append(out, r)
	}
	return out
}
