package domain

import (
	"encoding/json"
	"fmt"
)

// LatLng is a geographic coordinate in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Waypoint is an intermediate location on a route, in the shape a
// directions renderer accepts: a location plus whether the route stops there.
type Waypoint struct {
	Location LatLng `json:"location"`
	Stopover bool   `json:"stopover"`
}

// StopoverWaypoints serializes a single stopover at loc into the text form
// stored in the waypoints column.
func StopoverWaypoints(loc LatLng) (string, error) {
	b, err := json.Marshal([]Waypoint{{Location: loc, Stopover: true}})
	if err != nil {
		return "", fmt.Errorf("domain.StopoverWaypoints: %w", err)
	}
	return string(b), nil
}

// ParseWaypoints decodes the stored waypoints text.
// Returns ErrValidation when raw is not a JSON array of waypoints.
func ParseWaypoints(raw string) ([]Waypoint, error) {
	var wps []Waypoint
	if err := json.Unmarshal([]byte(raw), &wps); err != nil {
		return nil, fmt.Errorf("%w: waypoints must be a JSON array of waypoints", ErrValidation)
	}
	return wps, nil
}
