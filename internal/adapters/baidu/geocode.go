package baidu

import (
	"commute-planner/internal/domain"
	"commute-planner/internal/platform/obs"
	"context"
	"encoding/json"
	"fmt"
)

const placeTemplate = "/place/v2/search?query=%s&region=%s&output=json&ak=%s"

type placeResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Results []struct {
		Name     string `json:"name"`
		Location *struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"results"`
}

// SignLookup returns the signed place-search URL for address within region.
func (c *Client) SignLookup(address, region string) string {
	return c.signer.Sign(placeTemplate, address, region, c.apiKey)
}

// Lookup resolves a signed place-search URL to the first result's location.
// Every error wraps domain.ErrLookupFailure.
func (c *Client) Lookup(ctx context.Context, signedURL string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "baidu.Lookup")(&err)

	body, err := c.get(ctx, signedURL)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: %w", domain.ErrLookupFailure, err)
	}

	var decoded placeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: decode place response: %v", domain.ErrLookupFailure, err)
	}

	if decoded.Status != 0 {
		return domain.Coordinate{}, fmt.Errorf(
			"%w: place search status=%d message=%q",
			domain.ErrLookupFailure, decoded.Status, decoded.Message,
		)
	}

	if len(decoded.Results) == 0 {
		return domain.Coordinate{}, fmt.Errorf("%w: no place results", domain.ErrLookupFailure)
	}

	loc := decoded.Results[0].Location
	if loc == nil {
		return domain.Coordinate{}, fmt.Errorf("%w: first place result has no location", domain.ErrLookupFailure)
	}

	c.log.WithField("place", decoded.Results[0].Name).Debugf("resolved %v,%v", loc.Lat, loc.Lng)

	return domain.Coordinate{Lat: loc.Lat, Lng: loc.Lng}, nil
}
