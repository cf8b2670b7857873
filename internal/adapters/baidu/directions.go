package baidu

import (
	"commute-planner/internal/domain"
	"commute-planner/internal/platform/obs"
	"context"
	"encoding/json"
	"fmt"
)

const directionTemplate = "/directionlite/v1/%s?origin=%s,%s&destination=%s,%s&timestamp=%s&ak=%s"

type directionResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type directionResult struct {
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// SignRoute returns the signed routing URL for one mode.
// The URL embeds the signer's current timestamp.
func (c *Client) SignRoute(mode domain.TransportMode, origin, destination domain.Coordinate) (string, error) {
	endpoint, ok := mode.Endpoint()
	if !ok {
		return "", fmt.Errorf("%w: unknown transport mode %q", domain.ErrRouteFailure, mode)
	}

	oLat, oLng := origin.Params()
	dLat, dLng := destination.Params()

	return c.signer.Sign(directionTemplate, endpoint, oLat, oLng, dLat, dLng, c.signer.Timestamp(), c.apiKey), nil
}

// Route returns the first route's distance (meters) and duration (whole
// minutes, truncated). Every error wraps domain.ErrRouteFailure.
func (c *Client) Route(
	ctx context.Context,
	mode domain.TransportMode,
	origin domain.Coordinate,
	destination domain.Coordinate,
) (_ domain.RouteMetrics, err error) {
	defer obs.Time(ctx, "baidu.Route."+string(mode))(&err)

	signedURL, err := c.SignRoute(mode, origin, destination)
	if err != nil {
		return domain.RouteMetrics{}, err
	}

	body, err := c.get(ctx, signedURL)
	if err != nil {
		return domain.RouteMetrics{}, fmt.Errorf("%w: %w", domain.ErrRouteFailure, err)
	}

	var decoded directionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.RouteMetrics{}, fmt.Errorf("%w: decode direction response: %v", domain.ErrRouteFailure, err)
	}

	if decoded.Status != 0 {
		return domain.RouteMetrics{}, fmt.Errorf(
			"%w: %s status=%d message=%q",
			domain.ErrRouteFailure, mode, decoded.Status, decoded.Message,
		)
	}

	var result directionResult
	if err := json.Unmarshal(decoded.Result, &result); err != nil {
		return domain.RouteMetrics{}, fmt.Errorf("%w: decode direction result: %v", domain.ErrRouteFailure, err)
	}

	if len(result.Routes) == 0 {
		return domain.RouteMetrics{}, fmt.Errorf("%w: no %s route", domain.ErrRouteFailure, mode)
	}

	route := result.Routes[0]

	return domain.RouteMetrics{
		DistanceMeters:  int(route.Distance),
		DurationMinutes: int(route.Duration) / 60,
	}, nil
}
