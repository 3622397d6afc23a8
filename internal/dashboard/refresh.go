package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/view"
)

const markerFillOpacity = 0.6

// Refresh fetches the feed for the selected window, filters it by the
// minimum magnitude and replaces the event layer, the table and the status.
//
// On any fetch or parse failure the status turns to an error and the
// previous markers and rows stay as they are. A result is applied only if no
// other refresh started in the meantime; otherwise ErrSuperseded is returned.
func (d *Dashboard) Refresh(ctx context.Context) error {
	start := time.Now()

	d.mu.Lock()
	d.generation++
	gen := d.generation
	window, minMag := d.state.Window, d.state.MinMagnitude
	d.state.Status = view.Status{Text: statusLoading, State: view.StatusLoading}
	d.mu.Unlock()
	d.notify()

	events, err := d.events.FetchEvents(ctx, window)
	if err != nil {
		applied := d.apply(gen, func(s *State) {
			s.Status = view.Status{Text: statusError, State: view.StatusError}
		})
		if !applied {
			d.discard(gen, window)
			return ErrSuperseded
		}
		d.logger.Error("refresh failed", "window", int(window), "error", err)
		d.metrics.Refreshes.WithLabelValues("error").Inc()
		return fmt.Errorf("refresh %d-day feed: %w", window, err)
	}

	filtered := domain.FilterByMagnitude(events, minMag)
	markers, rows := Render(filtered, d.loc)

	applied := d.apply(gen, func(s *State) {
		s.Events.Replace(markers)
		s.Table.Replace(rows)
		s.Status = view.Status{
			Text:  fmt.Sprintf("%d eventi (%s)", len(filtered), window.Label()),
			State: view.StatusSuccess,
		}
	})
	if !applied {
		d.discard(gen, window)
		return ErrSuperseded
	}

	d.metrics.Refreshes.WithLabelValues("success").Inc()
	d.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	d.metrics.EventsFetched.Set(float64(len(events)))
	d.metrics.EventsDisplayed.Set(float64(len(markers)))
	d.logger.Info("refresh applied",
		"window", int(window),
		"min_magnitude", minMag,
		"fetched", len(events),
		"displayed", len(markers),
		"rows", len(rows),
	)

	if d.sink != nil {
		if err := d.sink.Publish(ctx, window, filtered); err != nil {
			d.logger.Warn("publish events failed", "error", err, "events", len(filtered))
		}
	}
	return nil
}

// apply runs fn under the lock if gen is still the newest refresh.
func (d *Dashboard) apply(gen uint64, fn func(s *State)) bool {
	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return false
	}
	fn(&d.state)
	d.renderedAt = domain.Now()
	d.mu.Unlock()
	d.notify()
	return true
}

func (d *Dashboard) discard(gen uint64, window domain.Window) {
	d.metrics.Refreshes.WithLabelValues("stale").Inc()
	d.logger.Debug("discarding superseded refresh", "generation", gen, "window", int(window))
}

// Render builds the markers for every event and the table rows for the
// first MaxTableRows events, both in input order.
func Render(events []domain.Event, loc *time.Location) ([]view.Marker, []view.Row) {
	markers := make([]view.Marker, 0, len(events))
	rows := make([]view.Row, 0, min(len(events), domain.MaxTableRows))

	for _, e := range events {
		ts := domain.FormatTimeOfDay(e.Time, loc)
		markers = append(markers, view.Marker{
			ID:          e.ID,
			Lat:         e.Geo.Lat,
			Lon:         e.Geo.Lon,
			Radius:      domain.RadiusFor(e.Magnitude),
			Style:       domain.ColorFor(e.Magnitude),
			FillOpacity: markerFillOpacity,
			Popup: view.Popup{
				Place:     domain.PopupPlace(e.Place),
				Magnitude: strconv.FormatFloat(e.Magnitude, 'f', -1, 64),
				Time:      ts,
			},
		})

		if len(rows) < domain.MaxTableRows {
			rows = append(rows, view.Row{
				Place:     domain.TablePlace(e.Place),
				Magnitude: domain.FormatMagnitude(e.Magnitude),
				Time:      ts,
			})
		}
	}
	return markers, rows
}
