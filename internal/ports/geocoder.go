package ports

import (
	"commute-planner/internal/domain"
	"context"
)

// Contract for resolving free-text addresses to coordinates.
type Geocoder interface {
	// Build the signed lookup URL for an address within a region.
	SignLookup(address, region string) string
	// Resolve a previously signed lookup URL.
	Lookup(ctx context.Context, signedURL string) (domain.Coordinate, error)
}
