package dashboard_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-map-service/internal/dashboard"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/view"
)

// --- fakes ---

type fakeEvents struct {
	mu      sync.Mutex
	byDays  map[domain.Window][]domain.Event
	err     error
	gates   map[domain.Window]chan struct{}
	started chan domain.Window
	calls   int
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{
		byDays:  map[domain.Window][]domain.Event{},
		gates:   map[domain.Window]chan struct{}{},
		started: make(chan domain.Window, 10),
	}
}

func (f *fakeEvents) FetchEvents(ctx context.Context, w domain.Window) ([]domain.Event, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gates[w]
	events, err := f.byDays[w], f.err
	f.mu.Unlock()

	f.started <- w
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return events, err
}

func (f *fakeEvents) set(w domain.Window, events []domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byDays[w] = events
}

func (f *fakeEvents) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakeBorders struct {
	set *domain.BorderSet
	err error
}

func (f *fakeBorders) FetchBorders(_ context.Context) (*domain.BorderSet, error) {
	return f.set, f.err
}

type recordingSink struct {
	window domain.Window
	events []domain.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, w domain.Window, events []domain.Event) error {
	s.window = w
	s.events = events
	return s.err
}

// --- helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDashboard(events *fakeEvents, borders *fakeBorders, opts dashboard.Options) (*dashboard.Dashboard, *observability.Metrics) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	metrics := observability.NewMetricsForTesting()
	return dashboard.New(events, borders, opts, discardLogger(), metrics), metrics
}

func quake(id string, mag float64) domain.Event {
	return domain.Event{
		ID:        id,
		Place:     "Near " + id,
		Magnitude: mag,
		Geo:       domain.Geo{Lat: 42.0, Lon: 13.0},
		Time:      time.Date(2024, time.October, 3, 14, 7, 0, 0, time.UTC),
	}
}

func manyQuakes(n int, mag float64) []domain.Event {
	out := make([]domain.Event, n)
	for i := range out {
		out[i] = quake(fmt.Sprintf("q%03d", i), mag)
	}
	return out
}

func markerIDs(ms []view.Marker) []string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}

// --- tests ---

func TestNew_InitialState(t *testing.T) {
	d, _ := newDashboard(newFakeEvents(), &fakeBorders{}, dashboard.Options{})
	snap := d.Snapshot()

	assert.Equal(t, domain.ThemeLight, snap.Theme)
	assert.Equal(t, dashboard.LightTileURL, snap.Base.URL)
	assert.Equal(t, "Dark mode", snap.ThemeButton)
	assert.Equal(t, domain.WindowDay, snap.Window)
	assert.Equal(t, view.Status{Text: "In attesa...", State: view.StatusIdle}, snap.Status)
	assert.Nil(t, snap.Borders)
	assert.Empty(t, snap.Markers)
	assert.Empty(t, snap.Rows)
	assert.Len(t, snap.Legend, 4)
	require.Len(t, snap.Windows, 3)
	assert.True(t, snap.Windows[0].Selected)
}

func TestNew_DarkThemeOption(t *testing.T) {
	d, _ := newDashboard(newFakeEvents(), &fakeBorders{}, dashboard.Options{Theme: domain.ThemeDark})
	snap := d.Snapshot()

	assert.Equal(t, domain.ThemeDark, snap.Theme)
	assert.Equal(t, dashboard.DarkTileURL, snap.Base.URL)
	assert.Equal(t, "Chiaro", snap.ThemeButton)
	assert.Equal(t, "dark-theme", snap.BodyClass)
}

func TestRefresh_FiltersAndRendersInFeedOrder(t *testing.T) {
	events := newFakeEvents()
	events.set(domain.WindowDay, []domain.Event{
		quake("a", 3.9),
		quake("b", 4.0),
		quake("c", 6.1),
		{ID: "d", Geo: domain.Geo{Lat: 1, Lon: 2}}, // missing magnitude
	})
	d, metrics := newDashboard(events, &fakeBorders{}, dashboard.Options{MinMagnitude: 4.0})

	require.NoError(t, d.Refresh(context.Background()))

	snap := d.Snapshot()
	assert.Equal(t, []string{"b", "c"}, markerIDs(snap.Markers))
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "4.0", snap.Rows[0].Magnitude)
	assert.Equal(t, "6.1", snap.Rows[1].Magnitude)
	assert.Equal(t, view.Status{Text: "2 eventi (Ultime 24 ore)", State: view.StatusSuccess}, snap.Status)
	assert.False(t, snap.RenderedAt.IsZero())

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Refreshes.WithLabelValues("success")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(metrics.EventsFetched), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.EventsDisplayed), 0)
}

func TestRefresh_TableCappedAtFiftyRows(t *testing.T) {
	events := newFakeEvents()
	events.set(domain.WindowDay, manyQuakes(120, 2.5))
	d, _ := newDashboard(events, &fakeBorders{}, dashboard.Options{})

	require.NoError(t, d.Refresh(context.Background()))

	snap := d.Snapshot()
	assert.Len(t, snap.Markers, 120)
	require.Len(t, snap.Rows, 50)
	assert.Equal(t, "Near q000", snap.Rows[0].Place)
	assert.Equal(t, "Near q049", snap.Rows[49].Place)
	assert.Equal(t, "120 eventi (Ultime 24 ore)", snap.Status.Text)
}

func TestRefresh_FailureKeepsPreviousRender(t *testing.T) {
	events := newFakeEvents()
	events.set(domain.WindowDay, manyQuakes(3, 5))
	d, metrics := newDashboard(events, &fakeBorders{}, dashboard.Options{})
	require.NoError(t, d.Refresh(context.Background()))
	before := d.Snapshot()

	events.fail(errors.New("connection reset"))
	err := d.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	after := d.Snapshot()
	assert.Equal(t, view.Status{Text: "Errore API", State: view.StatusError}, after.Status)
	assert.Equal(t, before.Markers, after.Markers)
	assert.Equal(t, before.Rows, after.Rows)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Refreshes.WithLabelValues("error")), 0)
}

func TestSetWindow_ZeroEventsClearsLayerAndTable(t *testing.T) {
	events := newFakeEvents()
	events.set(domain.WindowDay, manyQuakes(5, 1))
	events.set(domain.WindowWeek, nil)
	d, _ := newDashboard(events, &fakeBorders{}, dashboard.Options{})
	require.NoError(t, d.Refresh(context.Background()))
	require.Len(t, d.Snapshot().Markers, 5)

	require.NoError(t, d.SetWindow(context.Background(), domain.WindowWeek))

	snap := d.Snapshot()
	assert.Empty(t, snap.Markers)
	assert.Empty(t, snap.Rows)
	assert.Equal(t, view.Status{Text: "0 eventi (Ultimi 7 giorni)", State: view.StatusSuccess}, snap.Status)
	assert.Equal(t, domain.WindowWeek, snap.Window)
	assert.True(t, snap.Windows[1].Selected)
}

func TestSetWindow_RejectsUnknownWindow(t *testing.T) {
	events := newFakeEvents()
	d, _ := newDashboard(events, &fakeBorders{}, dashboard.Options{})

	err := d.SetWindow(context.Background(), domain.Window(3))
	require.ErrorIs(t, err, domain.ErrUnknownWindow)
	assert.Zero(t, events.calls)
}

func TestSetMinMagnitude_InvalidInputReadsAsZero(t *testing.T) {
	events := newFakeEvents()
	events.set(domain.WindowDay, []domain.Event{quake("a", 0.4), quake("b", 5.5)})
	d, _ := newDashboard(events, &fakeBorders{}, dashboard.Options{})

	require.NoError(t, d.SetMinMagnitude(context.Background(), "5"))
	assert.Equal(t, []string{"b"}, markerIDs(d.Snapshot().Markers))
	assert.Equal(t, 5.0, d.Snapshot().MinMagnitude)

	require.NoError(t, d.SetMinMagnitude(context.Background(), "not a number"))
	assert.Equal(t, []string{"a", "b"}, markerIDs(d.Snapshot().Markers))
	assert.Zero(t, d.Snapshot().MinMagnitude)
}

func TestRefresh_SupersededResultIsDiscarded(t *testing.T) {
	events := newFakeEvents()
	events.set(domain.WindowDay, manyQuakes(7, 3))
	events.set(domain.WindowWeek, manyQuakes(2, 3))
	gate := make(chan struct{})
	events.gates[domain.WindowDay] = gate

	d, metrics := newDashboard(events, &fakeBorders{}, dashboard.Options{})
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() { slow <- d.Refresh(ctx) }()
	require.Equal(t, domain.WindowDay, <-events.started)

	require.NoError(t, d.SetWindow(ctx, domain.WindowWeek))
	<-events.started

	close(gate)
	require.ErrorIs(t, <-slow, dashboard.ErrSuperseded)

	snap := d.Snapshot()
	assert.Len(t, snap.Markers, 2)
	assert.Equal(t, "2 eventi (Ultimi 7 giorni)", snap.Status.Text)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Refreshes.WithLabelValues("stale")), 0)
}

func TestRefresh_PublishesDisplayedEvents(t *testing.T) {
	events := newFakeEvents()
	events.set(domain.WindowDay, []domain.Event{quake("a", 1), quake("b", 4.2)})
	sink := &recordingSink{err: errors.New("broker down")}
	d, _ := newDashboard(events, &fakeBorders{}, dashboard.Options{MinMagnitude: 2, Sink: sink})

	// A publish failure never changes the user-visible result.
	require.NoError(t, d.Refresh(context.Background()))
	assert.Equal(t, domain.WindowDay, sink.window)
	require.Len(t, sink.events, 1)
	assert.Equal(t, "b", sink.events[0].ID)
	assert.Equal(t, view.StatusSuccess, d.Snapshot().Status.State)
}

func TestToggleTheme_TwoStateCycle(t *testing.T) {
	d, metrics := newDashboard(newFakeEvents(), &fakeBorders{set: domain.NewBorderSet(nil)}, dashboard.Options{})
	d.LoadBorders(context.Background())
	original := d.Snapshot()
	require.NotNil(t, original.Borders)
	assert.Equal(t, "#555555", original.Borders.Color)

	assert.Equal(t, domain.ThemeDark, d.ToggleTheme())
	dark := d.Snapshot()
	assert.Equal(t, dashboard.DarkTileURL, dark.Base.URL)
	assert.Equal(t, "Chiaro", dark.ThemeButton)
	assert.Equal(t, "dark-theme", dark.BodyClass)
	assert.Equal(t, "#cccccc", dark.Borders.Color)
	assert.Equal(t, 1, dark.Borders.Weight)

	assert.Equal(t, domain.ThemeLight, d.ToggleTheme())
	back := d.Snapshot()
	assert.Equal(t, original.Base, back.Base)
	assert.Equal(t, original.ThemeButton, back.ThemeButton)
	assert.Equal(t, original.BodyClass, back.BodyClass)
	assert.Equal(t, *original.Borders, *back.Borders)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.ThemeToggles), 0)
}

func TestLoadBorders_UsesActiveThemeColor(t *testing.T) {
	d, metrics := newDashboard(newFakeEvents(), &fakeBorders{set: domain.NewBorderSet(nil)}, dashboard.Options{})
	d.ToggleTheme()
	d.LoadBorders(context.Background())

	snap := d.Snapshot()
	require.NotNil(t, snap.Borders)
	assert.Equal(t, view.BorderStyle{Color: "#cccccc", Weight: 1}, *snap.Borders)
	_, ok := d.Borders()
	assert.True(t, ok)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.BordersLoaded), 0)
}

func TestLoadBorders_FailureThenToggleIsHarmless(t *testing.T) {
	d, metrics := newDashboard(newFakeEvents(), &fakeBorders{err: errors.New("HTTP 404")}, dashboard.Options{})
	d.LoadBorders(context.Background())

	_, ok := d.Borders()
	assert.False(t, ok)

	assert.NotPanics(t, func() {
		d.ToggleTheme()
		d.ToggleTheme()
	})
	assert.Nil(t, d.Snapshot().Borders)
	assert.Zero(t, testutil.ToFloat64(metrics.BordersLoaded))
}

func TestUpdates_SignalsAfterChanges(t *testing.T) {
	d, _ := newDashboard(newFakeEvents(), &fakeBorders{}, dashboard.Options{})

	d.ToggleTheme()
	select {
	case <-d.Updates():
	default:
		t.Fatal("expected an update signal")
	}
}

func TestRender_MarkersAndRows(t *testing.T) {
	events := []domain.Event{
		{ID: "x", Place: "24 km ENE of Amatrice, Italy", Magnitude: 6.3, Geo: domain.Geo{Lat: 42.7, Lon: 13.3},
			Time: time.Date(2024, time.August, 24, 1, 36, 0, 0, time.UTC)},
		{ID: "y", Magnitude: 0, Geo: domain.Geo{Lat: -3, Lon: 120}},
	}

	markers, rows := dashboard.Render(events, time.UTC)

	wantMarkers := []view.Marker{
		{
			ID: "x", Lat: 42.7, Lon: 13.3,
			Radius:      domain.RadiusFor(6.3),
			Style:       domain.Style{Stroke: "#ff0000", Fill: "#ff3333"},
			FillOpacity: 0.6,
			Popup:       view.Popup{Place: "24 km ENE of Amatrice, Italy", Magnitude: "6.3", Time: "01:36"},
		},
		{
			ID: "y", Lat: -3, Lon: 120,
			Radius:      2500,
			Style:       domain.Style{Stroke: "#0073e6", Fill: "#66b3ff"},
			FillOpacity: 0.6,
			Popup:       view.Popup{Place: "?", Magnitude: "0", Time: "00:00"},
		},
	}
	if diff := cmp.Diff(wantMarkers, markers); diff != "" {
		t.Fatalf("markers mismatch (-want +got):\n%s", diff)
	}

	wantRows := []view.Row{
		{Place: "24 km ENE of Am...", Magnitude: "6.3", Time: "01:36"},
		{Place: "?", Magnitude: "0.0", Time: "00:00"},
	}
	if diff := cmp.Diff(wantRows, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}
