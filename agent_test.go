package main

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/require"
)

func newAgent(t *testing.T, data *osm.OSM, mode WaySelection, hm HeuristicMode, goal Location) (*LRTAStarAgent, *MapGraph) {
	t.Helper()
	g := BuildMapGraph(data, mode, PlanarMetric)
	h, err := NewHeuristic(hm).AdaptToGoal(goal, g)
	require.NoError(t, err)
	return NewLRTAStarAgent(NewOnlineSearchProblem(g, goal), h), g
}

func TestLRTAStarUpdateRule(t *testing.T) {
	agent, _ := newAgent(t, pathMap(), WaySelectionAny, HeuristicZero, 3)
	require.Equal(t, AgentInit, agent.Status())

	// first run: A -> B -> C
	a, err := agent.Execute(1)
	require.NoError(t, err)
	require.Equal(t, MoveToAction{To: 2}, a)
	require.Equal(t, AgentRunning, agent.Status())

	a, err = agent.Execute(2)
	require.NoError(t, err)
	require.Equal(t, MoveToAction{To: 3}, a)

	a, err = agent.Execute(3)
	require.NoError(t, err)
	require.Equal(t, NoOp, a)
	require.Equal(t, AgentDone, agent.Status())

	hA, _ := agent.Estimate(1)
	hB, _ := agent.Estimate(2)
	require.GreaterOrEqual(t, hA, 1.0)
	require.GreaterOrEqual(t, hB, 1.0)
	require.Equal(t, 3, agent.TableSize())

	// a second run propagates B's estimate back to A
	agent.Reset()
	for _, s := range []Location{1, 2, 3} {
		_, err := agent.Execute(s)
		require.NoError(t, err)
	}
	hA, _ = agent.Estimate(1)
	hB, _ = agent.Estimate(2)
	require.GreaterOrEqual(t, hB, 1.0)
	require.GreaterOrEqual(t, hA, 1.0+hB)
}

func TestLRTAStarDoneEmitsNoOp(t *testing.T) {
	agent, _ := newAgent(t, pathMap(), WaySelectionAny, HeuristicStraightLine, 1)

	for i := 0; i < 3; i++ {
		a, err := agent.Execute(1)
		require.NoError(t, err)
		require.Equal(t, NoOp, a)
	}
	require.Equal(t, AgentDone, agent.Status())
	require.Equal(t, 1, agent.TableSize())
}

func TestLRTAStarDeadEnd(t *testing.T) {
	data := &osm.OSM{
		Nodes: osm.Nodes{node(1, 0, 0), node(2, 1, 0)},
		Ways:  osm.Ways{way(10, tags("highway", "residential", "oneway", "yes"), 1, 2)},
	}
	agent, g := newAgent(t, data, WaySelectionCar, HeuristicStraightLine, 1)
	require.Empty(t, g.Neighbors(2))

	_, err := agent.Execute(2)
	require.ErrorIs(t, err, ErrDeadEnd)
}

func TestLRTAStarTieBreakFollowsNeighbourOrder(t *testing.T) {
	// both ways around the square to node 3 cost the same
	agent, g := newAgent(t, squareMap(), WaySelectionAny, HeuristicZero, 3)
	require.Equal(t, []Location{2, 4}, targets(g.Neighbors(1)))

	a, err := agent.Execute(1)
	require.NoError(t, err)
	require.Equal(t, MoveToAction{To: 2}, a)
}

func TestLRTAStarPrefersLowerEstimate(t *testing.T) {
	// node 4 lies towards the goal, node 2 away from it
	data := &osm.OSM{
		Nodes: osm.Nodes{node(1, 0, 0), node(2, -1, 0), node(4, 1, 0), node(3, 2, 0)},
		Ways: osm.Ways{
			way(10, residential, 1, 2),
			way(11, residential, 1, 4, 3),
		},
	}
	agent, _ := newAgent(t, data, WaySelectionAny, HeuristicStraightLine, 3)

	a, err := agent.Execute(1)
	require.NoError(t, err)
	require.Equal(t, MoveToAction{To: 4}, a)

	h, ok := agent.Estimate(1)
	require.True(t, ok)
	require.InDelta(t, 2.0, h, 1e-12)

	_, ok = agent.Estimate(4)
	require.False(t, ok, "neighbours are looked up, not stored")
}

func TestLRTAStarEstimatesNeverDecrease(t *testing.T) {
	agent, g := newAgent(t, cityMap(), WaySelectionAny, HeuristicZero, 25)
	env := NewMapEnvironment(g)

	previous := map[Location]float64{}
	for run := 0; run < 3; run++ {
		agent.Reset()
		require.NoError(t, env.AddAgent(agent, 1))
		for !env.IsDone() {
			require.NoError(t, env.Step())
			for loc, before := range previous {
				now, ok := agent.Estimate(loc)
				require.True(t, ok)
				require.GreaterOrEqual(t, now, before)
			}
			for _, loc := range g.Locations() {
				if h, ok := agent.Estimate(loc); ok {
					previous[loc] = h
				}
			}
		}
	}
}
