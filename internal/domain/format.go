package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxTableRows caps the summary table. Markers are not capped.
const MaxTableRows = 50

const (
	tablePlaceRunes = 15
	unknownPlace    = "?"
)

// FilterByMagnitude keeps events whose magnitude is at least minMag, preserving feed order.
func FilterByMagnitude(events []Event, minMag float64) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Magnitude >= minMag {
			out = append(out, e)
		}
	}
	return out
}

// ParseMinMagnitude reads the minimum-magnitude field. Empty, malformed and
// non-finite input all read as 0. The [0, 9] range is only a hint of the
// input control and is not enforced here.
func ParseMinMagnitude(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatTimeOfDay renders t as a two-digit hour:minute string in loc.
func FormatTimeOfDay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("15:04")
}

// TablePlace shortens a place name for the summary table.
func TablePlace(place string) string {
	if place == "" {
		return unknownPlace
	}
	r := []rune(place)
	if len(r) <= tablePlaceRunes {
		return place
	}
	return string(r[:tablePlaceRunes]) + "..."
}

// PopupPlace is the place line of a marker popup.
func PopupPlace(place string) string {
	if place == "" {
		return unknownPlace
	}
	return place
}

// FormatMagnitude renders a magnitude with one decimal, as in the table.
func FormatMagnitude(mag float64) string {
	return strconv.FormatFloat(mag, 'f', 1, 64)
}
