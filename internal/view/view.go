// Package view holds the render targets of the dashboard: the marker layer,
// the summary table, the status indicator, the base tile layer, the border
// layer and the theme button. Surfaces (the browser page, the terminal) only
// draw what these hold; they never compute styling themselves.
package view

import (
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// StatusState is the visual state of the status indicator.
type StatusState string

const (
	StatusIdle    StatusState = "idle"
	StatusLoading StatusState = "loading"
	StatusSuccess StatusState = "success"
	StatusError   StatusState = "error"
)

// Status is the status indicator text and its visual state.
type Status struct {
	Text  string      `json:"text"`
	State StatusState `json:"state"`
}

// Popup is the content bound to a marker.
type Popup struct {
	Place     string `json:"place"`
	Magnitude string `json:"magnitude"`
	Time      string `json:"time"`
}

// Marker is a circle on the event layer. Radius is in meters.
type Marker struct {
	ID          string       `json:"id"`
	Lat         float64      `json:"lat"`
	Lon         float64      `json:"lon"`
	Radius      float64      `json:"radius"`
	Style       domain.Style `json:"style"`
	FillOpacity float64      `json:"fillOpacity"`
	Popup       Popup        `json:"popup"`
}

// Row is one line of the summary table.
type Row struct {
	Place     string `json:"place"`
	Magnitude string `json:"magnitude"`
	Time      string `json:"time"`
}

// TileLayer is the base map layer.
type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// BorderStyle is the stroke applied to the border outline layer.
type BorderStyle struct {
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
}

// WindowOption is one entry of the time window selector.
type WindowOption struct {
	Days     domain.Window `json:"days"`
	Label    string        `json:"label"`
	Selected bool          `json:"selected"`
}

// MapView is the initial map position.
type MapView struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zoom int     `json:"zoom"`
}

// Snapshot is an immutable copy of everything a surface needs to draw.
type Snapshot struct {
	Title        string               `json:"title"`
	Theme        domain.Theme         `json:"theme"`
	BodyClass    string               `json:"bodyClass"`
	ThemeButton  string               `json:"themeButton"`
	Window       domain.Window        `json:"window"`
	Windows      []WindowOption       `json:"windows"`
	MinMagnitude float64              `json:"minMagnitude"`
	Status       Status               `json:"status"`
	Base         TileLayer            `json:"base"`
	Borders      *BorderStyle         `json:"borders"`
	Markers      []Marker             `json:"markers"`
	Rows         []Row                `json:"rows"`
	Legend       []domain.LegendEntry `json:"legend"`
	View         MapView              `json:"view"`
	RenderedAt   time.Time            `json:"renderedAt"`
}
