package main

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// HeuristicMode selects the cost-to-goal estimator
type HeuristicMode string

const (
	HeuristicZero         HeuristicMode = "zero"
	HeuristicStraightLine HeuristicMode = "straight-line"
)

// ParseHeuristicMode accepts "0"/"zero" and "sld"/"straight-line" (the default)
func ParseHeuristicMode(value string) (HeuristicMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "zero":
		return HeuristicZero, nil
	case "", "sld", "straight-line", "straightline":
		return HeuristicStraightLine, nil
	}
	return "", errUnknownMode("heuristic", value)
}

// Heuristic estimates the remaining cost from a location to the goal
type Heuristic interface {
	H(loc Location) (float64, error)

	// AdaptToGoal returns a heuristic bound to goal on graph. The receiver is left unchanged.
	AdaptToGoal(goal Location, graph *MapGraph) (Heuristic, error)
}

// NewHeuristic returns the unadapted heuristic for a mode
func NewHeuristic(mode HeuristicMode) Heuristic {
	if mode == HeuristicZero {
		return ZeroHeuristic{}
	}
	return StraightLineHeuristic{}
}

// ZeroHeuristic always returns 0, which turns LRTA* into uniform-cost exploration
type ZeroHeuristic struct{}

func (ZeroHeuristic) H(Location) (float64, error) { return 0, nil }

func (z ZeroHeuristic) AdaptToGoal(Location, *MapGraph) (Heuristic, error) { return z, nil }

// StraightLineHeuristic returns the direct distance between a location and the goal
type StraightLineHeuristic struct {
	graph   *MapGraph
	goal    Location
	goalPos orb.Point
}

func (s StraightLineHeuristic) AdaptToGoal(goal Location, graph *MapGraph) (Heuristic, error) {
	pos, ok := graph.Position(goal)
	if !ok {
		return nil, fmt.Errorf("adapt to goal %d: %w", goal, ErrUnknownLocation)
	}
	return StraightLineHeuristic{graph: graph, goal: goal, goalPos: pos}, nil
}

// Goal returns the adapted goal and whether adaptation happened
func (s StraightLineHeuristic) Goal() (Location, bool) {
	return s.goal, s.graph != nil
}

func (s StraightLineHeuristic) H(loc Location) (float64, error) {
	if s.graph == nil {
		return 0, ErrNotAdapted
	}
	pos, ok := s.graph.Position(loc)
	if !ok {
		return 0, fmt.Errorf("estimate %d: %w", loc, ErrUnknownLocation)
	}
	return s.graph.Distance(pos, s.goalPos), nil
}
