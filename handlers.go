package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// maxSimulateDuration bounds synchronous runs started over HTTP
const maxSimulateDuration = 2 * time.Minute

type server struct {
	svc *Service
}

func newServer(svc *Service) *server {
	return &server{svc: svc}
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/config", s.configHandler).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/map", s.mapHandler).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/graph/lines", s.graphLinesHandler).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/simulate", s.simulateHandler).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/runs", s.startRunHandler).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/runs/current", s.currentRunHandler).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/runs/current", s.cancelRunHandler).Methods(http.MethodDelete)
	router.HandleFunc("/track", s.trackHandler).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/track.geojson", s.trackGeoJSONHandler).Methods(http.MethodGet, http.MethodOptions)

	return router
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}

// GET /health - Health check endpoint
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	graph := s.svc.Graph()
	cfg := s.svc.Config()

	status := "ready"
	if graph.NodeCount() == 0 {
		status = "waiting for map data"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       status,
		"numNodes":     graph.NodeCount(),
		"numEdges":     graph.EdgeCount(),
		"waySelection": cfg.WaySelection,
		"heuristic":    cfg.Heuristic,
		"metric":       cfg.Metric.Name,
	})
}

// POST /config - Change way selection and heuristic, rebuilds the graph
func (s *server) configHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("⚙️  Config request received")

	var req struct {
		WaySelection string `json:"waySelection"`
		Heuristic    string `json:"heuristic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mode, err := ParseWaySelection(req.WaySelection)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	heuristic, err := ParseHeuristicMode(req.Heuristic)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.svc.Configure(mode, heuristic)
	graph := s.svc.Graph()
	log.Println("========================================")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"waySelection": mode,
		"heuristic":    heuristic,
		"numNodes":     graph.NodeCount(),
		"numEdges":     graph.EdgeCount(),
	})
}

// POST /map - Replace the map with an OSM XML document
func (s *server) mapHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("🗺️  Map upload received")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read request body")
		return
	}
	data, err := DecodeMap(body)
	if err != nil {
		log.Printf("❌ %v\n", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.svc.LoadMap(data)
	graph := s.svc.Graph()
	log.Printf("✅ Map loaded: %d nodes, %d ways\n", len(data.Nodes), len(data.Ways))
	log.Println("========================================")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"numNodes": graph.NodeCount(),
		"numEdges": graph.EdgeCount(),
	})
}

// GET /graph/lines - Get graph edges as line strings for visualization
func (s *server) graphLinesHandler(w http.ResponseWriter, r *http.Request) {
	graph := s.svc.Graph()
	lines := graph.Lines()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"lines":    lines,
		"numNodes": graph.NodeCount(),
		"numEdges": len(lines),
	})
}

func decodeRunRequest(w http.ResponseWriter, r *http.Request) (RunRequest, bool) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if req.StepDelayMs < 0 || req.MaxSteps < 0 {
		writeError(w, http.StatusBadRequest, "stepDelayMs and maxSteps must not be negative")
		return req, false
	}
	for i, m := range req.Markers {
		log.Printf("   Marker %d: (%.6f, %.6f)\n", i, m.Lat, m.Lon)
	}
	return req, true
}

// POST /simulate - Run the agent until it reaches the goal, fails or the client goes away
func (s *server) simulateHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Simulation request received")

	req, ok := decodeRunRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), maxSimulateDuration)
	defer cancel()

	report := s.svc.Simulate(ctx, req)
	log.Println("========================================")
	writeJSON(w, http.StatusOK, report)
}

// POST /runs - Start a run in the background, cancelling the previous one
func (s *server) startRunHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("🚀 Background run requested")

	req, ok := decodeRunRequest(w, r)
	if !ok {
		return
	}
	s.svc.Start(req)
	log.Println("========================================")

	report, _ := s.svc.Current()
	writeJSON(w, http.StatusAccepted, report)
}

// GET /runs/current - Status of the latest background run
func (s *server) currentRunHandler(w http.ResponseWriter, r *http.Request) {
	report, ok := s.svc.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no run started")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DELETE /runs/current - Cancel the latest background run
func (s *server) cancelRunHandler(w http.ResponseWriter, r *http.Request) {
	cancelled := s.svc.Cancel()
	if cancelled {
		log.Println("⏹️  Cancellation requested")
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"cancelled": cancelled,
	})
}

// requestedTrack picks the synchronous track, or the background one for ?run=background
func (s *server) requestedTrack(r *http.Request) *Track {
	if r.URL.Query().Get("run") == "background" {
		return s.svc.TrackNamed(BackgroundTrackName)
	}
	return s.svc.Track()
}

// GET /track - Positions of the latest track
func (s *server) trackHandler(w http.ResponseWriter, r *http.Request) {
	track := s.requestedTrack(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":      track.Name(),
		"positions": track.Positions(),
	})
}

// GET /track.geojson - Latest track as GeoJSON, optionally simplified (?simplify=auto or a tolerance)
func (s *server) trackGeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	track := s.requestedTrack(r)

	if param := r.URL.Query().Get("simplify"); param != "" {
		tolerance := EstimateSimplificationTolerance(track.Points())
		if param != "auto" {
			v, err := strconv.ParseFloat(param, 64)
			if err != nil || v < 0 {
				writeError(w, http.StatusBadRequest, "simplify must be 'auto' or a non-negative tolerance")
				return
			}
			tolerance = v
		}
		before := track.Len()
		track = track.Simplified(tolerance)
		log.Printf("📉 Track simplified from %d to %d points (tolerance %g)\n", before, track.Len(), tolerance)
	}

	data, err := track.FeatureCollection().MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}
