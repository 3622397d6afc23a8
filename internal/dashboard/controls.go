package dashboard

import (
	"context"
	"fmt"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/view"
)

// LoadBorders fetches the outline overlay once. On failure it logs and leaves
// the overlay absent; nothing is retried.
func (d *Dashboard) LoadBorders(ctx context.Context) {
	set, err := d.borders.FetchBorders(ctx)
	if err != nil {
		d.logger.Warn("border overlay unavailable", "error", err)
		return
	}

	d.mu.Lock()
	d.borderSet = set
	d.state.Borders = view.NewBorderLayer(themePresets[d.state.Theme].borderColor)
	d.mu.Unlock()

	d.metrics.BordersLoaded.Set(1)
	d.logger.Info("border overlay loaded", "features", set.Len())
	d.notify()
}

// SetWindow selects a time window and refreshes immediately.
func (d *Dashboard) SetWindow(ctx context.Context, w domain.Window) error {
	if !w.Valid() {
		return fmt.Errorf("set window %d: %w", w, domain.ErrUnknownWindow)
	}
	d.mu.Lock()
	d.state.Window = w
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// SetMinMagnitude parses the raw field value (invalid input reads as 0)
// and refreshes immediately.
func (d *Dashboard) SetMinMagnitude(ctx context.Context, raw string) error {
	v := domain.ParseMinMagnitude(raw)
	d.mu.Lock()
	d.state.MinMagnitude = v
	d.mu.Unlock()
	return d.Refresh(ctx)
}
