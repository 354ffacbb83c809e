package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeuristicMode(t *testing.T) {
	for in, want := range map[string]HeuristicMode{
		"":              HeuristicStraightLine,
		"SLD":           HeuristicStraightLine,
		"straight-line": HeuristicStraightLine,
		"0":             HeuristicZero,
		"zero":          HeuristicZero,
	} {
		got, err := ParseHeuristicMode(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseHeuristicMode("manhattan")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestStraightLineHeuristicRequiresGoal(t *testing.T) {
	h := NewHeuristic(HeuristicStraightLine)
	_, err := h.H(1)
	require.ErrorIs(t, err, ErrNotAdapted)

	g := BuildMapGraph(squareMap(), WaySelectionAny, PlanarMetric)
	_, err = h.AdaptToGoal(42, g)
	require.ErrorIs(t, err, ErrUnknownLocation)

	adapted, err := h.AdaptToGoal(3, g)
	require.NoError(t, err)

	goal, ok := adapted.(StraightLineHeuristic).Goal()
	require.True(t, ok)
	require.Equal(t, Location(3), goal)

	// adapting returns a new value, the receiver stays unadapted
	_, ok = h.(StraightLineHeuristic).Goal()
	require.False(t, ok)

	v, err := adapted.H(1)
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt2, v, 1e-12)

	v, err = adapted.H(3)
	require.NoError(t, err)
	require.Zero(t, v)

	_, err = adapted.H(99)
	require.ErrorIs(t, err, ErrUnknownLocation)
}

func TestZeroHeuristic(t *testing.T) {
	h, err := NewHeuristic(HeuristicZero).AdaptToGoal(3, nil)
	require.NoError(t, err)
	for _, loc := range []Location{1, 2, 3, 99} {
		v, err := h.H(loc)
		require.NoError(t, err)
		require.Zero(t, v)
	}
}

func TestStraightLineHeuristicIsAdmissible(t *testing.T) {
	g := BuildMapGraph(cityMap(), WaySelectionCar, GeoMetric)
	locations := g.Locations()
	require.NotEmpty(t, locations)

	for _, goal := range locations {
		h, err := NewHeuristic(HeuristicStraightLine).AdaptToGoal(goal, g)
		require.NoError(t, err)

		for _, s := range locations {
			cost := shortestPathCost(g, s, goal)
			if math.IsInf(cost, 1) {
				continue
			}
			v, err := h.H(s)
			require.NoError(t, err)
			require.LessOrEqual(t, v, cost+1e-9, "h(%d) towards %d", s, goal)
		}
	}
}
