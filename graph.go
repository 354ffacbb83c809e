package main

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// Location is a map node id used as search state
type Location = osm.NodeID

// Edge represents a directed connection between two map nodes with a cost
type Edge struct {
	To   Location  // Destination node
	Cost float64   // Distance under the graph metric
	Way  osm.WayID // Originating way
}

// MapGraph is the traversable part of the map under one way selection.
// Edges exist only for ways accepted by the selection; with oneway
// enforcement a oneway street contributes edges in its direction only.
type MapGraph struct {
	mode      WaySelection
	metric    Metric
	nodes     map[Location]orb.Point
	edges     map[Location][]Edge
	edgeCount int
	bound     orb.Bound
}

// BuildMapGraph derives the adjacency from raw map entities.
// Neighbour order is fixed: ways in input order, node pairs in way order,
// and the forward edge of a pair before the backward one.
func BuildMapGraph(data *osm.OSM, mode WaySelection, metric Metric) *MapGraph {
	g := &MapGraph{
		mode:   mode,
		metric: metric,
		nodes:  make(map[Location]orb.Point),
		edges:  make(map[Location][]Edge),
	}
	if data == nil {
		return g
	}

	positions := make(map[Location]orb.Point, len(data.Nodes))
	for _, n := range data.Nodes {
		positions[n.ID] = orb.Point{n.Lon, n.Lat}
	}

	for _, way := range data.Ways {
		if !mode.Accepts(way) {
			continue
		}
		dir := mode.directionOf(way)

		for i := 0; i+1 < len(way.Nodes); i++ {
			from, to := way.Nodes[i].ID, way.Nodes[i+1].ID
			if from == to {
				continue
			}
			fromPt, ok1 := positions[from]
			toPt, ok2 := positions[to]
			if !ok1 || !ok2 {
				continue // node outside the extract
			}

			g.addNode(from, fromPt)
			g.addNode(to, toPt)

			cost := metric.Distance(fromPt, toPt)
			if dir != backwardOnly {
				g.addEdge(from, Edge{To: to, Cost: cost, Way: way.ID})
			}
			if dir != forwardOnly {
				g.addEdge(to, Edge{To: from, Cost: cost, Way: way.ID})
			}
		}
	}

	return g
}

func (g *MapGraph) addNode(id Location, p orb.Point) {
	if _, exists := g.nodes[id]; exists {
		return
	}
	if len(g.nodes) == 0 {
		g.bound = p.Bound()
	} else {
		g.bound = g.bound.Extend(p)
	}
	g.nodes[id] = p
}

// addEdge keeps the first edge between two nodes when several ways share a segment
func (g *MapGraph) addEdge(from Location, e Edge) {
	for _, existing := range g.edges[from] {
		if existing.To == e.To {
			return
		}
	}
	g.edges[from] = append(g.edges[from], e)
	g.edgeCount++
}

// Neighbors returns the outgoing edges of loc. A dead end yields an empty slice.
// The returned slice must not be modified.
func (g *MapGraph) Neighbors(loc Location) []Edge {
	return g.edges[loc]
}

// EdgeTo returns the edge from one node to another, if traversable
func (g *MapGraph) EdgeTo(from, to Location) (Edge, bool) {
	for _, e := range g.edges[from] {
		if e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

// Position returns the geographic point of a node
func (g *MapGraph) Position(loc Location) (orb.Point, bool) {
	p, ok := g.nodes[loc]
	return p, ok
}

// Contains reports whether loc belongs to the filtered graph
func (g *MapGraph) Contains(loc Location) bool {
	_, ok := g.nodes[loc]
	return ok
}

// Distance measures between two points with the graph metric
func (g *MapGraph) Distance(a, b orb.Point) float64 {
	return g.metric.Distance(a, b)
}

func (g *MapGraph) Metric() Metric { return g.metric }

func (g *MapGraph) Mode() WaySelection { return g.mode }

func (g *MapGraph) NodeCount() int { return len(g.nodes) }

func (g *MapGraph) EdgeCount() int { return g.edgeCount }

// Bound is the extent of all graph nodes
func (g *MapGraph) Bound() orb.Bound { return g.bound }

// Locations returns all node ids in ascending order
func (g *MapGraph) Locations() []Location {
	locs := make([]Location, 0, len(g.nodes))
	for id := range g.nodes {
		locs = append(locs, id)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i] < locs[j] })
	return locs
}

// Lines returns the graph edges as line segments for visualization.
// Each pair of connected nodes appears once regardless of direction.
func (g *MapGraph) Lines() [][]Position {
	lines := make([][]Position, 0, g.edgeCount)

	type segment struct{ a, b Location }
	seen := make(map[segment]bool)

	for _, from := range g.Locations() {
		for _, e := range g.edges[from] {
			key := segment{from, e.To}
			if e.To < from {
				key = segment{e.To, from}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			lines = append(lines, []Position{positionOf(g.nodes[from]), positionOf(g.nodes[e.To])})
		}
	}

	return lines
}
