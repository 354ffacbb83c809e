package main

import (
	"log"
	"net/http"
	"os"

	"github.com/paulmach/osm"
)

// trackUpdateBuffer is how many positions the renderer may lag behind the agent
const trackUpdateBuffer = 256

// consumeTrackUpdates stands in for a renderer: it drains positions handed off by runs
func consumeTrackUpdates(updates <-chan TrackUpdate, verbose bool) {
	for u := range updates {
		if verbose {
			log.Printf("   🚶 %s: (%.6f, %.6f)\n", u.Track, u.Position.Lat, u.Position.Lon)
		}
	}
}

func main() {
	log.Println("========================================")
	log.Println("🚀 LRTA* Map Agent Server")
	log.Println("========================================")

	if err := loadEnvFile(".env"); err != nil {
		log.Printf("⚠️  %v\n", err)
	}
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatal(err)
	}

	data := &osm.OSM{}
	if cfg.MapFiles != "" {
		if loaded, err := LoadMapFiles(cfg.MapFiles); err == nil {
			data = loaded
		} else {
			log.Printf("⚠️  %v\n", err)
		}
	} else {
		log.Println("ℹ️  No map files configured (this is normal when maps are uploaded)")
		log.Println("   Call POST /map with an OSM XML document")
	}
	log.Println("")

	updates := make(chan TrackUpdate, trackUpdateBuffer)
	go consumeTrackUpdates(updates, cfg.Verbose)

	svc := NewService(data, ServiceConfig{
		WaySelection: cfg.WaySelection,
		Heuristic:    cfg.Heuristic,
		Metric:       cfg.Metric,
		MaxRadius:    cfg.MaxRadius,
	}, updates)
	router := newServer(svc).routes()

	log.Printf("Server starting on %s\n", cfg.Addr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  GET    /health          - Check server status")
	log.Println("  POST   /config          - Select ways (any/car/bicycle) and heuristic (zero/straight-line)")
	log.Println("  POST   /map             - Upload OSM XML map data")
	log.Println("  GET    /graph/lines     - Get graph edges for visualization")
	log.Println("  POST   /simulate        - Run the LRTA* agent between two markers")
	log.Println("  POST   /runs            - Start a background run")
	log.Println("  GET    /runs/current    - Status of the background run")
	log.Println("  DELETE /runs/current    - Cancel the background run")
	log.Println("  GET    /track           - Recorded agent track (?run=background for /runs)")
	log.Println("  GET    /track.geojson   - Recorded agent track as GeoJSON (?simplify=auto)")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatal(err)
	}
}
