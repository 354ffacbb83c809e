package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/paulmach/osm"
)

// RunRequest asks for a simulation between the first two markers
type RunRequest struct {
	Markers     []Position `json:"markers"`
	StepDelayMs int        `json:"stepDelayMs,omitempty"`
	MaxSteps    int        `json:"maxSteps,omitempty"`
}

// RunReport is the externally visible outcome of a run
type RunReport struct {
	Status     string     `json:"status"`
	StatusText string     `json:"statusText"`
	Steps      int        `json:"steps"`
	Distance   *float64   `json:"distance,omitempty"`
	Unit       string     `json:"unit,omitempty"`
	Visited    int        `json:"visited,omitempty"`
	Start      *Location  `json:"start,omitempty"`
	Goal       *Location  `json:"goal,omitempty"`
	Track      []Position `json:"track"`
}

// ServiceConfig holds the parameters a user can change between runs
type ServiceConfig struct {
	WaySelection WaySelection
	Heuristic    HeuristicMode
	Metric       Metric
	MaxRadius    float64
}

// Service owns the map, the graph derived for the current configuration and
// the currently running simulation. The graph is rebuilt on every
// configuration change and shared read-only by runs.
type Service struct {
	mu       sync.RWMutex
	data     *osm.OSM
	cfg      ServiceConfig
	graph    *MapGraph
	resolver *LocationResolver

	tracks  *TrackStore
	updates chan<- TrackUpdate

	runMu  sync.Mutex
	active *activeRun
}

type activeRun struct {
	cancel context.CancelFunc
	done   chan struct{}
	track  *Track
	report RunReport
}

// NewService builds the graph for cfg. updates may be nil when nothing renders tracks.
func NewService(data *osm.OSM, cfg ServiceConfig, updates chan<- TrackUpdate) *Service {
	if cfg.Metric.Distance == nil {
		cfg.Metric = GeoMetric
	}
	if cfg.WaySelection == "" {
		cfg.WaySelection = WaySelectionAny
	}
	if cfg.Heuristic == "" {
		cfg.Heuristic = HeuristicStraightLine
	}
	s := &Service{
		data:    data,
		cfg:     cfg,
		tracks:  NewTrackStore(),
		updates: updates,
	}
	s.rebuild()
	return s
}

// rebuild derives graph and resolver from the map; callers hold mu
func (s *Service) rebuild() {
	start := time.Now()
	s.graph = BuildMapGraph(s.data, s.cfg.WaySelection, s.cfg.Metric)
	s.resolver = NewLocationResolver(s.graph, s.cfg.MaxRadius)
	s.tracks.Clear(DefaultTrackName)
	s.tracks.Clear(BackgroundTrackName)

	log.Printf("🗺️  Map graph built for mode %q: %d nodes, %d edges (%.2f s)\n",
		s.cfg.WaySelection, s.graph.NodeCount(), s.graph.EdgeCount(), time.Since(start).Seconds())
}

// Configure changes way selection and heuristic. The graph is rebuilt and the track cleared.
func (s *Service) Configure(mode WaySelection, heuristic HeuristicMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.WaySelection = mode
	s.cfg.Heuristic = heuristic
	s.rebuild()
}

// LoadMap replaces the raw map entities
func (s *Service) LoadMap(data *osm.OSM) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.rebuild()
}

func (s *Service) Config() ServiceConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Service) Graph() *MapGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// Track returns the route of the latest synchronous run
func (s *Service) Track() *Track {
	return s.tracks.Get(DefaultTrackName)
}

// TrackNamed returns a published track, DefaultTrackName or BackgroundTrackName
func (s *Service) TrackNamed(name string) *Track {
	return s.tracks.Get(name)
}

// run is everything one simulation owns
type run struct {
	env      *MapEnvironment
	recorder *TrackRecorder
	start    Location
	goal     Location
	opts     SimulationOptions
}

// prepare resolves the markers and wires agent, environment and track recorder.
// The track is published only once the run is ready to start.
func (s *Service) prepare(req RunRequest, track *Track) (*run, error) {
	if len(req.Markers) < 2 {
		return nil, ErrInsufficientInput
	}

	s.mu.RLock()
	graph, resolver, cfg := s.graph, s.resolver, s.cfg
	s.mu.RUnlock()

	if graph == nil || graph.NodeCount() == 0 {
		return nil, ErrNoMap
	}

	start, err := resolver.NearestLocation(req.Markers[0].Point())
	if err != nil {
		return nil, fmt.Errorf("start marker: %w", err)
	}
	goal, err := resolver.NearestLocation(req.Markers[1].Point())
	if err != nil {
		return nil, fmt.Errorf("goal marker: %w", err)
	}

	heuristic, err := NewHeuristic(cfg.Heuristic).AdaptToGoal(goal, graph)
	if err != nil {
		return nil, err
	}

	problem := NewOnlineSearchProblem(graph, goal)
	agent := NewLRTAStarAgent(problem, heuristic)

	env := NewMapEnvironment(graph)
	s.tracks.Publish(track)
	recorder := NewTrackRecorder(track, s.updates)
	env.AddListener(recorder)
	if err := env.AddAgent(agent, start); err != nil {
		return nil, err
	}

	return &run{
		env:      env,
		recorder: recorder,
		start:    start,
		goal:     goal,
		opts: SimulationOptions{
			StepDelay: time.Duration(req.StepDelayMs) * time.Millisecond,
			MaxSteps:  req.MaxSteps,
		},
	}, nil
}

// Simulate runs a simulation on the calling goroutine until it ends or ctx is cancelled
func (s *Service) Simulate(ctx context.Context, req RunRequest) RunReport {
	return s.simulate(ctx, req, NewTrack(DefaultTrackName))
}

func (s *Service) simulate(ctx context.Context, req RunRequest, track *Track) RunReport {
	r, err := s.prepare(req, track)
	if err != nil {
		log.Printf("❌ Run not started: %v\n", err)
		return failedReport(err)
	}

	log.Printf("🔍 Running LRTA* from node %d to node %d...\n", r.start, r.goal)
	result := Simulate(ctx, r.env, r.opts)

	report := RunReport{
		Status:     result.Status,
		StatusText: result.StatusText(),
		Steps:      result.Steps,
		Visited:    r.recorder.Visited(),
		Start:      &r.start,
		Goal:       &r.goal,
		Track:      r.recorder.Track().Positions(),
	}
	if result.HasDistance() {
		d := roundTo(result.Distance, 4)
		report.Distance = &d
		report.Unit = result.Unit
	}

	switch result.Status {
	case StatusSuccess:
		log.Printf("✅ Goal reached after %d steps\n", result.Steps)
	case StatusCancelled:
		log.Printf("⏹️  Run cancelled after %d steps\n", result.Steps)
	default:
		log.Printf("❌ Run ended with %s: %v\n", result.Status, result.Err)
	}
	log.Printf("   %s\n", report.StatusText)
	return report
}

func failedReport(err error) RunReport {
	status := StatusFailed
	text := "Error: " + err.Error()
	switch {
	case errors.Is(err, ErrInsufficientInput):
		status, text = StatusInsufficientInput, ErrInsufficientInput.Error()
	case errors.Is(err, ErrNoNearbyLocation):
		status = StatusNoLocation
	}
	return RunReport{Status: status, StatusText: text, Track: []Position{}}
}

// Start launches a run on its own goroutine. A run still in progress is cancelled first.
func (s *Service) Start(req RunRequest) {
	ctx, cancel := context.WithCancel(context.Background())

	s.runMu.Lock()
	previous := s.active
	if previous != nil {
		previous.cancel()
	}
	current := &activeRun{
		cancel: cancel,
		done:   make(chan struct{}),
		track:  NewTrack(BackgroundTrackName),
		report: RunReport{Status: StatusRunning, StatusText: "Running...", Track: []Position{}},
	}
	s.active = current
	s.runMu.Unlock()

	go func() {
		defer close(current.done)
		// the previous run must not publish its track over ours
		if previous != nil {
			<-previous.done
		}
		report := s.simulate(ctx, req, current.track)

		s.runMu.Lock()
		current.report = report
		s.runMu.Unlock()
		cancel()
	}()
}

// Cancel stops the current run, if any. It reports whether a run was still in progress.
func (s *Service) Cancel() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.active == nil {
		return false
	}
	select {
	case <-s.active.done:
		return false
	default:
		s.active.cancel()
		return true
	}
}

// Wait blocks until the current run finished or ctx is done
func (s *Service) Wait(ctx context.Context) (RunReport, bool) {
	s.runMu.Lock()
	current := s.active
	s.runMu.Unlock()
	if current == nil {
		return RunReport{}, false
	}
	select {
	case <-current.done:
	case <-ctx.Done():
	}
	return s.Current()
}

// Current returns the report of the latest background run. While it is
// running the report carries the run's own track recorded so far.
func (s *Service) Current() (RunReport, bool) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.active == nil {
		return RunReport{}, false
	}
	report := s.active.report
	if report.Status == StatusRunning {
		report.Track = s.active.track.Positions()
		report.Steps = len(report.Track)
	}
	return report, true
}
