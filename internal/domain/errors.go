package domain

import "errors"

// Failure classes for map lookups.
//
// Network and timeout errors wrap ErrTransportFailure together with the
// class of the operation that was running, so both checks hold:
//
//	errors.Is(err, domain.ErrLookupFailure)
//	errors.Is(err, domain.ErrTransportFailure)
var (
	// ErrLookupFailure is returned when an address cannot be geocoded.
	ErrLookupFailure = errors.New("lookup failure")

	// ErrRouteFailure is returned when no route is available for a mode.
	ErrRouteFailure = errors.New("route failure")

	// ErrTransportFailure is returned for HTTP-level errors and timeouts.
	ErrTransportFailure = errors.New("transport failure")

	// ErrAlreadyResolved is returned when a coordinate is set twice.
	ErrAlreadyResolved = errors.New("coordinate already resolved")

	// ErrDuplicateName is returned for a second roster row with a name
	// already taken in the same sheet. Rankings are keyed by office name.
	ErrDuplicateName = errors.New("duplicate name")
)

// ErrNoRuns is returned by result stores that hold no run yet.
var ErrNoRuns = errors.New("no stored runs")
