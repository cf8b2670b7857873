package domain

import "fmt"

// Named travel method. Each mode maps to its own routing endpoint.
type TransportMode string

const (
	ModeWalk      TransportMode = "walk"
	ModeTransport TransportMode = "transport"
	ModeDrive     TransportMode = "drive"
	ModeRide      TransportMode = "ride"
)

// Modes evaluated when the configuration does not list any.
var DefaultModes = []TransportMode{ModeWalk, ModeTransport}

var modeEndpoints = map[TransportMode]string{
	ModeWalk:      "walking",
	ModeTransport: "transit",
	ModeDrive:     "driving",
	ModeRide:      "riding",
}

// Endpoint returns the routing endpoint segment for the mode.
func (m TransportMode) Endpoint() (string, bool) {
	e, ok := modeEndpoints[m]
	return e, ok
}

// ParseModes converts configured mode names, preserving their order.
func ParseModes(names []string) ([]TransportMode, error) {
	if len(names) == 0 {
		return append([]TransportMode(nil), DefaultModes...), nil
	}

	seen := make(map[TransportMode]struct{}, len(names))
	out := make([]TransportMode, 0, len(names))
	for _, n := range names {
		m := TransportMode(n)
		if _, ok := modeEndpoints[m]; !ok {
			return nil, fmt.Errorf("parse modes: unknown transport mode %q", n)
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}

	return out, nil
}
