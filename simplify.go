package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// SimplifyTrack reduces a recorded route with the Douglas-Peucker algorithm.
// The first and last positions are always kept. A tolerance <= 0 returns an unchanged copy.
func SimplifyTrack(points []orb.Point, tolerance float64) orb.LineString {
	ls := make(orb.LineString, len(points))
	copy(ls, points)
	if len(ls) <= 2 || tolerance <= 0 {
		return ls
	}
	return simplify.DouglasPeucker(tolerance).LineString(ls)
}

// EstimateSimplificationTolerance suggests a tolerance in coordinate units.
// Long tracks get coarser tolerances so rendering stays fast.
func EstimateSimplificationTolerance(points []orb.Point) float64 {
	if len(points) == 0 {
		return 0.00002
	}

	sample := points[0]
	n := len(points)

	// Check if lat/lng coordinates
	if sample.Lon() >= -180 && sample.Lon() <= 180 &&
		sample.Lat() >= -90 && sample.Lat() <= 90 {
		// Base: 0.00002 degrees ≈ 2.2 meters
		base := 0.00002

		switch {
		case n > 10000:
			return base * 5.0
		case n > 2000:
			return base * 3.0
		case n > 500:
			return base * 2.0
		}
		return base
	}

	// Projected/planar coordinates
	switch {
	case n > 10000:
		return 10.0
	case n > 2000:
		return 5.0
	case n > 500:
		return 2.0
	}
	return 1.0
}

// Simplified returns a new track holding the simplified route
func (t *Track) Simplified(tolerance float64) *Track {
	s := NewTrack(t.name)
	s.points = SimplifyTrack(t.Points(), tolerance)
	return s
}
