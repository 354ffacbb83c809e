package main

import (
	"errors"
	"fmt"
)

// Run outcomes that are reported to the caller instead of crashing the server.
var (
	// ErrInsufficientInput is returned when fewer than two markers were supplied.
	ErrInsufficientInput = errors.New("fewer than two markers set")

	// ErrNoNearbyLocation is returned when a marker has no graph node within the search radius.
	ErrNoNearbyLocation = errors.New("no map location within search radius")

	// ErrDeadEnd is returned when the agent stands on a node without outgoing edges.
	ErrDeadEnd = errors.New("agent has no actions available")

	// ErrNotAdapted is returned when a goal-dependent heuristic is queried before AdaptToGoal.
	ErrNotAdapted = errors.New("heuristic used before goal adaptation")

	ErrUnknownLocation = errors.New("location is not part of the map graph")
	ErrUnknownMode     = errors.New("unknown mode")
	ErrNoMap           = errors.New("no map data loaded")
)

func errUnknownMode(kind, value string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownMode, kind, value)
}
