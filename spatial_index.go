package main

import (
	"fmt"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// DefaultMaxRadius is the default marker search radius in metric units (Metric.Unit, km for GeoMetric)
const DefaultMaxRadius = 1.0

const pointTolerance = 1e-9

// locationEntry wraps a graph node for R-tree storage
type locationEntry struct {
	Location Location
	Point    orb.Point
	BBox     rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *locationEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// LocationResolver maps arbitrary points to the nearest node of a filtered graph
type LocationResolver struct {
	tree      *rtreego.Rtree
	metric    Metric
	maxRadius float64
}

// NewLocationResolver indexes every node of the graph. Nodes that only belong
// to filtered-out ways are not part of the graph and are never returned.
func NewLocationResolver(graph *MapGraph, maxRadius float64) *LocationResolver {
	if maxRadius <= 0 {
		maxRadius = DefaultMaxRadius
	}
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, loc := range graph.Locations() {
		p, _ := graph.Position(loc)
		tree.Insert(&locationEntry{
			Location: loc,
			Point:    p,
			BBox:     rtreego.Point{p[0], p[1]}.ToRect(pointTolerance),
		})
	}

	return &LocationResolver{tree: tree, metric: graph.Metric(), maxRadius: maxRadius}
}

// MaxRadius returns the search radius in metric units
func (r *LocationResolver) MaxRadius() float64 {
	return r.maxRadius
}

// NearestLocation returns the closest node within the search radius.
// Equally distant nodes resolve to the lowest node id.
func (r *LocationResolver) NearestLocation(point orb.Point) (Location, error) {
	bound := r.metric.BoundAround(point, r.maxRadius).Pad(pointTolerance)
	bbox, err := rtreego.NewRect(
		rtreego.Point{bound.Min[0], bound.Min[1]},
		[]float64{bound.Max[0] - bound.Min[0], bound.Max[1] - bound.Min[1]},
	)
	if err != nil {
		return 0, fmt.Errorf("invalid search region around (%.6f, %.6f): %w", point.Lat(), point.Lon(), err)
	}

	var (
		best     Location
		bestDist float64
		found    bool
	)
	for _, item := range r.tree.SearchIntersect(bbox) {
		entry := item.(*locationEntry)
		dist := r.metric.Distance(point, entry.Point)
		if dist > r.maxRadius {
			continue
		}
		if !found || dist < bestDist || (dist == bestDist && entry.Location < best) {
			best, bestDist, found = entry.Location, dist, true
		}
	}

	if !found {
		return 0, fmt.Errorf("%w: (%.6f, %.6f) radius %.3f %s",
			ErrNoNearbyLocation, point.Lat(), point.Lon(), r.maxRadius, r.metric.Name)
	}
	return best, nil
}
