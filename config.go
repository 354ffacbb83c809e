package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the server configuration. Every flag defaults to an environment
// variable, which may come from a .env file.
type Config struct {
	Addr         string
	MapFiles     string
	WaySelection WaySelection
	Heuristic    HeuristicMode
	Metric       Metric
	MaxRadius    float64
	Verbose      bool
}

// loadEnvFile loads .env if present; a missing file is not an error
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Printf("Loaded environment from %s\n", path)
	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(envOr(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

// parseConfig reads flags from args on top of environment defaults
func parseConfig(args []string, output io.Writer) (Config, error) {
	flags := flag.NewFlagSet("lrta-server", flag.ContinueOnError)
	flags.SetOutput(output)

	addr := flags.String("addr", envOr("LRTA_ADDR", ":8080"), "listen address")
	mapFiles := flags.String("map", envOr("LRTA_MAP_FILES", ""), "glob of .osm files to load on startup")
	mode := flags.String("mode", envOr("LRTA_WAY_SELECTION", string(WaySelectionAny)), "way selection: any, car or bicycle")
	heuristic := flags.String("heuristic", envOr("LRTA_HEURISTIC", string(HeuristicStraightLine)), "heuristic: zero or straight-line")
	metric := flags.String("metric", envOr("LRTA_METRIC", GeoMetric.Name), "distance metric: geo-km or planar")
	radius := flags.Float64("radius", envFloat("LRTA_MAX_RADIUS", DefaultMaxRadius), "marker search radius in metric units")
	verbose := flags.Bool("verbose", envOr("LRTA_VERBOSE", "") == "true", "log every track update")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{Addr: *addr, MapFiles: *mapFiles, MaxRadius: *radius, Verbose: *verbose}

	var err error
	if cfg.WaySelection, err = ParseWaySelection(*mode); err != nil {
		return Config{}, err
	}
	if cfg.Heuristic, err = ParseHeuristicMode(*heuristic); err != nil {
		return Config{}, err
	}
	if cfg.Metric, err = ParseMetric(*metric); err != nil {
		return Config{}, err
	}
	if cfg.MaxRadius <= 0 {
		return Config{}, fmt.Errorf("radius must be positive (got %.3f)", cfg.MaxRadius)
	}
	return cfg, nil
}
