package main

import (
	"sync"
	"sync/atomic"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Track names in the store. Synchronous and background runs publish under
// separate names so neither overwrites the other's route.
const (
	DefaultTrackName    = "Track"
	BackgroundTrackName = "Background"
)

// Track is a named, append-only sequence of positions.
// One goroutine appends while others read.
type Track struct {
	name   string
	mu     sync.RWMutex
	points []orb.Point
}

func NewTrack(name string) *Track {
	return &Track{name: name}
}

func (t *Track) Name() string { return t.name }

func (t *Track) Append(p orb.Point) {
	t.mu.Lock()
	t.points = append(t.points, p)
	t.mu.Unlock()
}

func (t *Track) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.points)
}

// Points returns a copy of the recorded positions
func (t *Track) Points() []orb.Point {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]orb.Point, len(t.points))
	copy(out, t.points)
	return out
}

// Positions returns the track in client coordinates
func (t *Track) Positions() []Position {
	points := t.Points()
	out := make([]Position, len(points))
	for i, p := range points {
		out[i] = positionOf(p)
	}
	return out
}

// FeatureCollection renders the track as a GeoJSON LineString feature
func (t *Track) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	points := t.Points()
	if len(points) == 0 {
		return fc
	}

	var geometry orb.Geometry = orb.LineString(points)
	if len(points) == 1 {
		geometry = points[0]
	}
	feature := geojson.NewFeature(geometry)
	feature.Properties["name"] = t.name
	feature.Properties["points"] = len(points)
	fc.Append(feature)
	return fc
}

// TrackStore publishes the latest track per name. Every run records into its
// own Track, so runs never share one; publishing replaces the previous track.
type TrackStore struct {
	mu     sync.RWMutex
	tracks map[string]*Track
}

func NewTrackStore() *TrackStore {
	return &TrackStore{tracks: make(map[string]*Track)}
}

// Start replaces the named track with a fresh, empty one and returns it
func (s *TrackStore) Start(name string) *Track {
	t := NewTrack(name)
	s.Publish(t)
	return t
}

// Publish replaces the track stored under t's name
func (s *TrackStore) Publish(t *Track) {
	s.mu.Lock()
	s.tracks[t.Name()] = t
	s.mu.Unlock()
}

// Get returns the named track, or an empty one if nothing was recorded
func (s *TrackStore) Get(name string) *Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tracks[name]; ok {
		return t
	}
	return NewTrack(name)
}

// Clear drops the named track
func (s *TrackStore) Clear(name string) {
	s.mu.Lock()
	delete(s.tracks, name)
	s.mu.Unlock()
}

// TrackUpdate is handed to the rendering side for every recorded position
type TrackUpdate struct {
	Track    string
	Position Position
}

// TrackRecorder records the agent's moves into a track. Positions are also
// offered to an optional renderer channel without ever blocking the
// simulation; updates the renderer cannot take are counted as dropped.
type TrackRecorder struct {
	track   *Track
	updates chan<- TrackUpdate
	dropped atomic.Int64
	visited map[Location]struct{}
}

func NewTrackRecorder(track *Track, updates chan<- TrackUpdate) *TrackRecorder {
	return &TrackRecorder{
		track:   track,
		updates: updates,
		visited: make(map[Location]struct{}),
	}
}

// Notify implements Listener. Only move actions extend the track.
func (r *TrackRecorder) Notify(e Event) {
	switch e.Kind {
	case EventAgentAdded:
		r.visited[e.Location] = struct{}{}
	case EventAgentActed:
		if _, moved := e.Action.(MoveToAction); !moved {
			return
		}
		r.visited[e.Location] = struct{}{}
		r.track.Append(e.Position)
		r.handOff(TrackUpdate{Track: r.track.Name(), Position: positionOf(e.Position)})
	}
}

func (r *TrackRecorder) handOff(u TrackUpdate) {
	if r.updates == nil {
		return
	}
	select {
	case r.updates <- u:
	default:
		r.dropped.Add(1)
	}
}

func (r *TrackRecorder) Track() *Track { return r.track }

// Dropped counts updates the renderer channel could not accept
func (r *TrackRecorder) Dropped() int64 { return r.dropped.Load() }

// Visited is the number of distinct locations seen during the run.
// Only call it from the simulation goroutine or after the run finished.
func (r *TrackRecorder) Visited() int { return len(r.visited) }
