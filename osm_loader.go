package main

import (
	"encoding/xml"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/paulmach/osm"
)

// DecodeMap parses an OSM XML document into raw map entities
func DecodeMap(data []byte) (*osm.OSM, error) {
	var o osm.OSM
	if err := xml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse osm xml: %w", err)
	}
	return &o, nil
}

// LoadMapFile reads a single .osm file
func LoadMapFile(path string) (*osm.OSM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}
	return DecodeMap(data)
}

// LoadMapFiles loads every file matching the glob pattern and merges the entities.
// Nodes and ways appearing in several files are kept once, first file wins.
// Unreadable files are logged and skipped.
func LoadMapFiles(pattern string) (*osm.OSM, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files match %s", ErrNoMap, pattern)
	}

	log.Printf("Loading map data from %d OSM files...\n", len(files))

	merged := &osm.OSM{}
	seenNodes := make(map[osm.NodeID]bool)
	seenWays := make(map[osm.WayID]bool)

	for _, file := range files {
		data, err := LoadMapFile(file)
		if err != nil {
			log.Printf("⚠️  Failed to load %s: %v\n", file, err)
			continue
		}

		nodeCount, wayCount := 0, 0
		for _, n := range data.Nodes {
			if seenNodes[n.ID] {
				continue
			}
			seenNodes[n.ID] = true
			merged.Nodes = append(merged.Nodes, n)
			nodeCount++
		}
		for _, w := range data.Ways {
			if seenWays[w.ID] {
				continue
			}
			seenWays[w.ID] = true
			merged.Ways = append(merged.Ways, w)
			wayCount++
		}

		log.Printf("   ✅ Loaded %d nodes and %d ways from %s\n", nodeCount, wayCount, filepath.Base(file))
	}

	log.Printf("Total map data loaded: %d nodes, %d ways\n", len(merged.Nodes), len(merged.Ways))
	return merged, nil
}
