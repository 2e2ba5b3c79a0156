// Package record normalizes provider route alternatives into the fixed-shape
// rows persisted by the store.
package record

import (
	"math"
	"strings"
	"time"

	"github.com/nward/commutetrack/internal/directions"
)

// metersPerMile is the conversion constant for the distance column.
const metersPerMile = 1609.34

// defaultLabel is used when the provider returns no summary for a path.
const defaultLabel = "N/A"

// stepSeparator joins turn-by-turn instructions into one readable string.
const stepSeparator = " → "

// emphasisReplacer strips the visual-emphasis markup the provider embeds in
// instruction text.
var emphasisReplacer = strings.NewReplacer("<b>", "", "</b>", "")

// CommuteRecord is one persisted row: a single alternative's timing, distance
// and instructions at a point in time. Rows are append-only and never mutated.
type CommuteRecord struct {
	// Timestamp is local wall-clock time at minute granularity.
	Timestamp time.Time `json:"timestamp"`

	// Day is the weekday name derived from Timestamp.
	Day string `json:"day"`

	// RouteLabel is the alternative's summary, or "N/A" when absent.
	RouteLabel string `json:"route_label"`

	// DurationMinutes is the travel time rounded to one decimal, preferring
	// the traffic-adjusted duration when the provider supplied one.
	DurationMinutes float64 `json:"duration_minutes"`

	// DistanceMiles is the driving distance rounded to one decimal.
	DistanceMiles float64 `json:"distance_miles"`

	// Directions is the ordered turn list joined with an arrow separator,
	// emphasis markup removed.
	Directions string `json:"directions"`
}

// Normalize converts a raw provider alternative into a CommuteRecord stamped
// at the given instant.
func Normalize(alt directions.Alternative, now time.Time) CommuteRecord {
	seconds := alt.DurationSeconds
	if alt.TrafficDurationSeconds > 0 {
		seconds = alt.TrafficDurationSeconds
	}

	label := alt.Summary
	if label == "" {
		label = defaultLabel
	}

	steps := make([]string, 0, len(alt.Steps))
	for _, s := range alt.Steps {
		steps = append(steps, emphasisReplacer.Replace(s))
	}

	return CommuteRecord{
		Timestamp:       now,
		Day:             now.Weekday().String(),
		RouteLabel:      label,
		DurationMinutes: round1(float64(seconds) / 60),
		DistanceMiles:   round1(float64(alt.DistanceMeters) / metersPerMile),
		Directions:      strings.Join(steps, stepSeparator),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
