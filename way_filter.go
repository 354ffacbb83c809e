package main

import (
	"strings"

	"github.com/paulmach/osm"
)

// WaySelection chooses which ways are traversable and whether oneway tags are honoured
type WaySelection string

const (
	WaySelectionAny     WaySelection = "any"
	WaySelectionCar     WaySelection = "car"
	WaySelectionBicycle WaySelection = "bicycle"
)

// ParseWaySelection accepts the mode names used in requests and flags
func ParseWaySelection(value string) (WaySelection, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "any", "any-way":
		return WaySelectionAny, nil
	case "car":
		return WaySelectionCar, nil
	case "bicycle", "bike":
		return WaySelectionBicycle, nil
	}
	return "", errUnknownMode("way selection", value)
}

// EnforceOneways reports whether edges of oneway streets are directed.
// Travelling on any way ignores oneway restrictions.
func (m WaySelection) EnforceOneways() bool {
	return m == WaySelectionCar || m == WaySelectionBicycle
}

// Accepts reports whether the way passes the filter of this mode
func (m WaySelection) Accepts(way *osm.Way) bool {
	if way == nil {
		return false
	}
	highway := way.Tags.Find("highway")
	if highway == "" {
		return false
	}
	if _, ok := privateAccessValues[way.Tags.Find("access")]; ok {
		return false
	}

	switch m {
	case WaySelectionCar:
		if _, ok := carHighways[highway]; !ok {
			return false
		}
		return way.Tags.Find("motor_vehicle") != "no" && way.Tags.Find("motorcar") != "no"
	case WaySelectionBicycle:
		if _, ok := bicycleExcludedHighways[highway]; ok {
			return way.Tags.Find("bicycle") == "yes" || way.Tags.Find("bicycle") == "designated"
		}
		return way.Tags.Find("bicycle") != "no"
	default:
		return true
	}
}

var (
	privateAccessValues = map[string]struct{}{
		"no":      {},
		"private": {},
	}

	carHighways = map[string]struct{}{
		"motorway":       {},
		"motorway_link":  {},
		"trunk":          {},
		"trunk_link":     {},
		"primary":        {},
		"primary_link":   {},
		"secondary":      {},
		"secondary_link": {},
		"tertiary":       {},
		"tertiary_link":  {},
		"unclassified":   {},
		"residential":    {},
		"living_street":  {},
		"service":        {},
		"road":           {},
	}

	bicycleExcludedHighways = map[string]struct{}{
		"motorway":      {},
		"motorway_link": {},
		"trunk":         {},
		"trunk_link":    {},
		"footway":       {},
		"pedestrian":    {},
		"steps":         {},
		"corridor":      {},
		"elevator":      {},
		"escalator":     {},
	}
)

type direction int

const (
	bothDirections direction = iota
	forwardOnly
	backwardOnly
)

// directionOf derives the traversal direction of a way under the mode
func (m WaySelection) directionOf(way *osm.Way) direction {
	if !m.EnforceOneways() {
		return bothDirections
	}
	if m == WaySelectionBicycle && way.Tags.Find("oneway:bicycle") == "no" {
		return bothDirections
	}
	switch way.Tags.Find("oneway") {
	case "yes", "true", "1":
		return forwardOnly
	case "-1", "reverse":
		return backwardOnly
	case "no", "false", "0":
		return bothDirections
	}
	if way.Tags.Find("junction") == "roundabout" || way.Tags.Find("highway") == "motorway" {
		return forwardOnly
	}
	return bothDirections
}
