package domain

import "math"

// Bucket is a magnitude severity class used for marker colors and the legend.
type Bucket int

const (
	BucketLight Bucket = iota
	BucketMedium
	BucketStrong
	BucketCritical
)

// Marker radius constants, in meters.
const (
	RadiusBase  = 1000.0
	RadiusScale = 1500.0
)

// Style is the stroke/fill color pair of a marker.
type Style struct {
	Stroke string `json:"stroke"`
	Fill   string `json:"fill"`
}

var bucketStyles = map[Bucket]Style{
	BucketCritical: {Stroke: "#ff0000", Fill: "#ff3333"},
	BucketStrong:   {Stroke: "#ff9900", Fill: "#ffcc66"},
	BucketMedium:   {Stroke: "#ffff00", Fill: "#ffff99"},
	BucketLight:    {Stroke: "#0073e6", Fill: "#66b3ff"},
}

// BucketFor classifies a magnitude. Lower bounds are inclusive.
func BucketFor(mag float64) Bucket {
	switch {
	case mag >= 6:
		return BucketCritical
	case mag >= 4:
		return BucketStrong
	case mag >= 2:
		return BucketMedium
	default:
		return BucketLight
	}
}

// ColorFor returns the marker colors for a magnitude.
func ColorFor(mag float64) Style {
	return bucketStyles[BucketFor(mag)]
}

// RadiusFor returns the marker radius in meters: 1000 + 1500 * 2^mag.
func RadiusFor(mag float64) float64 {
	return RadiusBase + RadiusScale*math.Pow(2, mag)
}

// LegendEntry is one swatch of the map legend.
type LegendEntry struct {
	Bucket Bucket `json:"bucket"`
	Color  string `json:"color"`
	Label  string `json:"label"`
}

// Legend returns the four legend swatches from most to least severe.
func Legend() []LegendEntry {
	return []LegendEntry{
		{Bucket: BucketCritical, Color: bucketStyles[BucketCritical].Fill, Label: "≥ 6.0 (Critico)"},
		{Bucket: BucketStrong, Color: bucketStyles[BucketStrong].Fill, Label: "≥ 4.0 (Forte)"},
		{Bucket: BucketMedium, Color: bucketStyles[BucketMedium].Fill, Label: "≥ 2.0 (Medio)"},
		{Bucket: BucketLight, Color: bucketStyles[BucketLight].Fill, Label: "< 2.0 (Lievi)"},
	}
}
