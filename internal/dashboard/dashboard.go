// Package dashboard owns the Application State and every operation that
// changes it: refreshing the event layer, loading the border overlay,
// toggling the theme, and applying control panel input.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/view"
)

// ErrSuperseded is returned by Refresh when a newer refresh started before
// this one finished. Its result was discarded.
var ErrSuperseded = errors.New("refresh superseded by a newer request")

const (
	title = "Monitoraggio Sismico"

	statusWaiting = "In attesa..."
	statusLoading = "Caricamento..."
	statusError   = "Errore API"
)

// Initial map position.
var initialView = view.MapView{Lat: 45.605, Lon: 10.212, Zoom: 3}

// EventSource fetches the feed for a time window.
type EventSource interface {
	FetchEvents(ctx context.Context, window domain.Window) ([]domain.Event, error)
}

// BorderSource fetches the country outlines.
type BorderSource interface {
	FetchBorders(ctx context.Context) (*domain.BorderSet, error)
}

// EventSink receives the displayed events after every applied refresh.
type EventSink interface {
	Publish(ctx context.Context, window domain.Window, events []domain.Event) error
}

// Options sets the initial Application State.
type Options struct {
	Window       domain.Window
	MinMagnitude float64
	Theme        domain.Theme
	Location     *time.Location
	Sink         EventSink // optional
}

// State is the Application State. The base tile source and the border
// stroke always match Theme.
type State struct {
	Theme        domain.Theme
	Window       domain.Window
	MinMagnitude float64

	BodyClass   string
	ThemeButton string
	Status      view.Status

	Base    view.TileLayer
	Events  view.MarkerLayer
	Borders *view.BorderLayer // nil until the overlay loads
	Table   view.Table
}

// Dashboard coordinates the Application State. All methods are safe for
// concurrent use.
type Dashboard struct {
	mu         sync.Mutex
	state      State
	borderSet  *domain.BorderSet
	generation uint64
	renderedAt time.Time

	events  EventSource
	borders BorderSource
	sink    EventSink
	loc     *time.Location

	logger  *slog.Logger
	metrics *observability.Metrics
	updates chan struct{}
}

// New creates a Dashboard in its startup state: no markers, no rows, no
// border overlay, and a waiting status.
func New(events EventSource, borders BorderSource, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Dashboard {
	if !opts.Window.Valid() {
		opts.Window = domain.WindowDay
	}
	if opts.Theme != domain.ThemeDark {
		opts.Theme = domain.ThemeLight
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	d := &Dashboard{
		state: State{
			Window:       opts.Window,
			MinMagnitude: opts.MinMagnitude,
			Status:       view.Status{Text: statusWaiting, State: view.StatusIdle},
			Base:         view.TileLayer{Attribution: tileAttribution},
		},
		events:  events,
		borders: borders,
		sink:    opts.Sink,
		loc:     opts.Location,
		logger:  logger,
		metrics: metrics,
		updates: make(chan struct{}, 1),
	}
	d.applyThemeLocked(opts.Theme)
	return d
}

// Updates signals after every visible state change. Signals are coalesced.
func (d *Dashboard) Updates() <-chan struct{} {
	return d.updates
}

func (d *Dashboard) notify() {
	select {
	case d.updates <- struct{}{}:
	default:
	}
}

// Snapshot copies the current view for a surface to draw.
func (d *Dashboard) Snapshot() view.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.state
	windows := make([]view.WindowOption, 0, len(domain.Windows))
	for _, w := range domain.Windows {
		windows = append(windows, view.WindowOption{Days: w, Label: w.Label(), Selected: w == s.Window})
	}

	snap := view.Snapshot{
		Title:        title,
		Theme:        s.Theme,
		BodyClass:    s.BodyClass,
		ThemeButton:  s.ThemeButton,
		Window:       s.Window,
		Windows:      windows,
		MinMagnitude: s.MinMagnitude,
		Status:       s.Status,
		Base:         s.Base,
		Markers:      s.Events.Markers(),
		Rows:         s.Table.Rows(),
		Legend:       domain.Legend(),
		View:         initialView,
		RenderedAt:   d.renderedAt,
	}
	if s.Borders != nil {
		style := s.Borders.Style()
		snap.Borders = &style
	}
	return snap
}

// Borders returns the loaded outline set, if any.
func (d *Dashboard) Borders() (*domain.BorderSet, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.borderSet, d.borderSet != nil
}
