package domain

import "strconv"

// Geographic coordinate in degrees. The zero value is the unresolved sentinel.
type Coordinate struct {
	Lat float64
	Lng float64
}

// IsZero reports whether the coordinate still holds the (0, 0) sentinel.
func (c Coordinate) IsZero() bool { return c.Lat == 0 && c.Lng == 0 }

// Return latitude and longitude formatted for query-string substitution.
// Shortest decimal form, so 31.20 renders as "31.2".
func (c Coordinate) Params() (lat string, lng string) {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64), strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

func (c Coordinate) String() string {
	lat, lng := c.Params()
	return "{" + lat + "," + lng + "}"
}
