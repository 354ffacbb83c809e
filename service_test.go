package main

import (
	"context"
	"testing"
	"time"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/require"
)

func newTestService(data *osm.OSM, updates chan<- TrackUpdate) *Service {
	return NewService(data, ServiceConfig{
		WaySelection: WaySelectionAny,
		Heuristic:    HeuristicStraightLine,
		Metric:       PlanarMetric,
		MaxRadius:    0.5,
	}, updates)
}

var (
	markerA = Position{Lat: 0, Lon: 0}
	markerC = Position{Lat: 1, Lon: 1}
)

func TestServiceSimulate(t *testing.T) {
	updates := make(chan TrackUpdate, 16)
	svc := newTestService(squareMap(), updates)

	report := svc.Simulate(context.Background(), RunRequest{Markers: []Position{markerA, {Lat: 1.1, Lon: 0.95}, {Lat: 5, Lon: 5}}})
	require.Equal(t, StatusSuccess, report.Status)
	require.Equal(t, "Travel distance: 2.0 units", report.StatusText)
	require.Equal(t, 2, report.Steps)
	require.NotNil(t, report.Distance)
	require.InDelta(t, 2.0, *report.Distance, 1e-9)
	require.Equal(t, PlanarMetric.Unit, report.Unit)
	require.Equal(t, 3, report.Visited)
	require.Equal(t, Location(1), *report.Start)
	require.Equal(t, Location(3), *report.Goal)
	require.Equal(t, []Position{{Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}}, report.Track)

	require.Len(t, updates, 2)
	require.Equal(t, report.Track, svc.Track().Positions())
}

func TestServiceSimulateRejectsInput(t *testing.T) {
	svc := newTestService(squareMap(), nil)

	report := svc.Simulate(context.Background(), RunRequest{Markers: []Position{markerA}})
	require.Equal(t, StatusInsufficientInput, report.Status)
	require.Equal(t, "fewer than two markers set", report.StatusText)
	require.Nil(t, report.Distance)
	require.Empty(t, report.Unit)
	require.Empty(t, report.Track)

	report = svc.Simulate(context.Background(), RunRequest{Markers: []Position{markerA, {Lat: 40, Lon: 40}}})
	require.Equal(t, StatusNoLocation, report.Status)
	require.Contains(t, report.StatusText, "goal marker")

	empty := newTestService(&osm.OSM{}, nil)
	report = empty.Simulate(context.Background(), RunRequest{Markers: []Position{markerA, markerC}})
	require.Equal(t, StatusFailed, report.Status)
	require.Equal(t, "Error: no map data loaded", report.StatusText)
}

func TestServiceConfigureRebuildsGraph(t *testing.T) {
	data := &osm.OSM{
		Nodes: osm.Nodes{node(1, 0, 0), node(2, 1, 0), node(3, 1, 1)},
		Ways: osm.Ways{
			way(10, residential, 1, 2),
			way(11, tags("highway", "footway"), 2, 3),
		},
	}
	svc := newTestService(data, nil)
	require.Equal(t, 3, svc.Graph().NodeCount())

	report := svc.Simulate(context.Background(), RunRequest{Markers: []Position{markerA, markerC}})
	require.Equal(t, StatusSuccess, report.Status)
	require.Equal(t, 2, svc.Track().Len())

	svc.Configure(WaySelectionCar, HeuristicZero)
	require.Equal(t, 2, svc.Graph().NodeCount())
	require.Equal(t, HeuristicZero, svc.Config().Heuristic)
	require.Zero(t, svc.Track().Len(), "the track is cleared on reconfiguration")

	// node 3 is only reachable on foot, the goal marker is now out of range
	report = svc.Simulate(context.Background(), RunRequest{Markers: []Position{markerA, markerC}})
	require.Equal(t, StatusNoLocation, report.Status)

	svc.LoadMap(squareMap())
	require.Equal(t, 4, svc.Graph().NodeCount())
}

func TestServiceStartAndCancel(t *testing.T) {
	svc := newTestService(squareMap(), nil)

	_, ok := svc.Current()
	require.False(t, ok)
	require.False(t, svc.Cancel())

	svc.Start(RunRequest{Markers: []Position{markerA, markerC}, StepDelayMs: int(time.Hour / time.Millisecond)})
	report, ok := svc.Current()
	require.True(t, ok)
	require.Equal(t, StatusRunning, report.Status)

	require.True(t, svc.Cancel())

	report, ok = svc.Wait(timeoutContext(t))
	require.True(t, ok)
	require.Equal(t, StatusCancelled, report.Status)
	require.LessOrEqual(t, report.Steps, 1)

	require.False(t, svc.Cancel(), "nothing left to cancel")
}

func TestServiceStartReplacesRunningRun(t *testing.T) {
	svc := newTestService(squareMap(), nil)

	svc.Start(RunRequest{Markers: []Position{markerA, markerC}, StepDelayMs: int(time.Hour / time.Millisecond)})
	svc.Start(RunRequest{Markers: []Position{markerA, markerC}})

	report, ok := svc.Wait(timeoutContext(t))
	require.True(t, ok)
	require.Equal(t, StatusSuccess, report.Status)
	require.Equal(t, 2, report.Steps)
	require.Len(t, svc.TrackNamed(BackgroundTrackName).Positions(), 2)
	require.Zero(t, svc.Track().Len())
}

const hourDelayMs = int(time.Hour / time.Millisecond)

func waitForCurrentTrack(t *testing.T, svc *Service, n int) RunReport {
	t.Helper()
	require.Eventually(t, func() bool {
		report, ok := svc.Current()
		return ok && len(report.Track) == n
	}, 5*time.Second, 5*time.Millisecond)
	report, _ := svc.Current()
	return report
}

func TestServiceCurrentShowsOnlyItsOwnTrack(t *testing.T) {
	svc := newTestService(squareMap(), nil)

	svc.Start(RunRequest{Markers: []Position{markerA, markerC}, StepDelayMs: hourDelayMs})
	first := waitForCurrentTrack(t, svc, 1)

	// from node 4 towards node 2, the first move never lands where the first run went
	svc.Start(RunRequest{Markers: []Position{{Lat: 1, Lon: 0}, {Lat: 0, Lon: 1}}, StepDelayMs: hourDelayMs})
	report, ok := svc.Current()
	require.True(t, ok)
	require.Equal(t, StatusRunning, report.Status)
	require.Empty(t, report.Track)
	require.Zero(t, report.Steps)

	second := waitForCurrentTrack(t, svc, 1)
	require.NotEqual(t, first.Track, second.Track)
	require.Equal(t, second.Track, svc.TrackNamed(BackgroundTrackName).Positions())

	require.True(t, svc.Cancel())
	_, ok = svc.Wait(timeoutContext(t))
	require.True(t, ok)
}

func TestServiceKeepsSyncAndBackgroundTracksApart(t *testing.T) {
	svc := newTestService(squareMap(), nil)

	svc.Start(RunRequest{Markers: []Position{markerA, markerC}, StepDelayMs: hourDelayMs})
	waitForCurrentTrack(t, svc, 1)

	report := svc.Simulate(context.Background(), RunRequest{Markers: []Position{markerA, markerC}})
	require.Equal(t, StatusSuccess, report.Status)
	require.Equal(t, 2, svc.Track().Len())

	require.Equal(t, 1, svc.TrackNamed(BackgroundTrackName).Len())
	current, ok := svc.Current()
	require.True(t, ok)
	require.Equal(t, StatusRunning, current.Status)
	require.Len(t, current.Track, 1)

	require.True(t, svc.Cancel())
	_, ok = svc.Wait(timeoutContext(t))
	require.True(t, ok)
	require.Equal(t, 2, svc.Track().Len())
}
