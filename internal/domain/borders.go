package domain

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// BorderSet is the immutable collection of country outlines.
type BorderSet struct {
	fc *geojson.FeatureCollection
}

// NewBorderSet wraps a parsed feature collection. Features without polygon
// geometry are kept but contribute no rings.
func NewBorderSet(fc *geojson.FeatureCollection) *BorderSet {
	if fc == nil {
		fc = geojson.NewFeatureCollection()
	}
	return &BorderSet{fc: fc}
}

// Len returns the number of features.
func (b *BorderSet) Len() int {
	return len(b.fc.Features)
}

// MarshalJSON encodes the set back to GeoJSON for browser surfaces.
func (b *BorderSet) MarshalJSON() ([]byte, error) {
	return b.fc.MarshalJSON()
}

// EachRing calls fn for every polygon ring, outer and inner.
func (b *BorderSet) EachRing(fn func(orb.Ring)) {
	for _, f := range b.fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			for _, r := range g {
				fn(r)
			}
		case orb.MultiPolygon:
			for _, p := range g {
				for _, r := range p {
					fn(r)
				}
			}
		}
	}
}
