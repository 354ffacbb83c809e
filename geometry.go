package main

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// Position is a geographic point as exchanged with clients
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point converts the position into orb's (lon, lat) order
func (p Position) Point() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

func positionOf(p orb.Point) Position {
	return Position{Lat: p.Lat(), Lon: p.Lon()}
}

// Metric defines how edge costs, heuristic values and search radii are measured.
// Edge costs and the straight-line heuristic always share one metric, which keeps
// the heuristic admissible: the direct distance never exceeds a path's length.
type Metric struct {
	Name string
	Unit string // unit of Distance results, shown in status texts

	// Distance between two points
	Distance func(a, b orb.Point) float64

	// BoundAround returns a box containing every point within radius of center
	BoundAround func(center orb.Point, radius float64) orb.Bound
}

// GeoMetric measures great-circle distances in kilometers (haversine)
var GeoMetric = Metric{
	Name: "geo-km",
	Unit: "km",
	Distance: func(a, b orb.Point) float64 {
		return geo.DistanceHaversine(a, b) / 1000.0
	},
	BoundAround: func(center orb.Point, radius float64) orb.Bound {
		return geo.NewBoundAroundPoint(center, radius*1000.0)
	},
}

// PlanarMetric treats coordinates as an already projected plane
var PlanarMetric = Metric{
	Name:     "planar",
	Unit:     "units",
	Distance: planar.Distance,
	BoundAround: func(center orb.Point, radius float64) orb.Bound {
		return orb.Bound{
			Min: orb.Point{center[0] - radius, center[1] - radius},
			Max: orb.Point{center[0] + radius, center[1] + radius},
		}
	},
}

// ParseMetric resolves a metric by name, defaulting to GeoMetric
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "", GeoMetric.Name, "geo":
		return GeoMetric, nil
	case PlanarMetric.Name:
		return PlanarMetric, nil
	}
	return Metric{}, errUnknownMode("metric", name)
}

// roundTo keeps reported distances readable (0.1 m for kilometers)
func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
