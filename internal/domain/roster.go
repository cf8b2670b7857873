package domain

// Row read from a roster sheet before any signing or geocoding.
type RosterRow struct {
	Name     string
	Address  string
	CanDrive bool
}

// Raw rows of both roster sheets.
type RosterRows struct {
	People  []RosterRow
	Offices []RosterRow
}

// People and offices of a single run, in sheet order.
type Roster struct {
	People  []*Person
	Offices []*Office
}

// ResolvedOffices returns offices with a geocoded coordinate.
func (r *Roster) ResolvedOffices() []*Office {
	out := make([]*Office, 0, len(r.Offices))
	for _, o := range r.Offices {
		if o.Resolved {
			out = append(out, o)
		}
	}
	return out
}

// ResolvedPeople returns people with a geocoded coordinate.
func (r *Roster) ResolvedPeople() []*Person {
	out := make([]*Person, 0, len(r.People))
	for _, p := range r.People {
		if p.Resolved {
			out = append(out, p)
		}
	}
	return out
}
