package model

import "github.com/lintang-b-s/olrmatch/pkg/geo"

// Waypoint is one anchor of the location reference being decoded (§3).
type Waypoint struct {
	Point            geo.Point
	DistanceToNextM  float64
	Bearing          int
	Lfrcnp           int
}

// NewWaypoint builds a Waypoint from its four declared fields.
func NewWaypoint(point geo.Point, distanceToNextM float64, bearing, lfrcnp int) Waypoint {
	return Waypoint{
		Point:           point,
		DistanceToNextM: distanceToNextM,
		Bearing:         bearing,
		Lfrcnp:          lfrcnp,
	}
}
