package usgs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

const (
	feedEvents  = "events"
	feedBorders = "borders"

	maxErrorBody = 200
)

// StatusError reports a non-2xx feed response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed %s returned HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client fetches the earthquake and border GeoJSON feeds.
type Client struct {
	httpClient *http.Client
	feeds      map[domain.Window]string
	bordersURL string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client. feeds maps every window to its URL.
func NewClient(feeds map[domain.Window]string, bordersURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		feeds:      feeds,
		bordersURL: bordersURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchEvents downloads the feed for window and returns its events in feed order.
func (c *Client) FetchEvents(ctx context.Context, window domain.Window) ([]domain.Event, error) {
	u, ok := c.feeds[window]
	if !ok {
		return nil, fmt.Errorf("fetch events for %d days: %w", window, domain.ErrUnknownWindow)
	}

	fc, err := c.fetchCollection(ctx, u, feedEvents)
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(fc.Features))
	for _, f := range fc.Features {
		e, ok := eventFromFeature(f)
		if !ok {
			c.logger.Debug("skipping feature without point geometry", "id", f.ID)
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

// FetchBorders downloads the country outline collection.
func (c *Client) FetchBorders(ctx context.Context) (*domain.BorderSet, error) {
	fc, err := c.fetchCollection(ctx, c.bordersURL, feedBorders)
	if err != nil {
		return nil, err
	}
	return domain.NewBorderSet(fc), nil
}

func (c *Client) fetchCollection(ctx context.Context, u, feed string) (fc *geojson.FeatureCollection, err error) {
	start := time.Now()
	defer func() {
		c.metrics.FeedRequestDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.metrics.FeedRequests.WithLabelValues(feed, outcome).Inc()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s feed request: %w", feed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode, Body: string(body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s feed: %w", feed, err)
	}

	fc, err = geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", feed, err)
	}
	return fc, nil
}

// eventFromFeature maps a feed feature to an Event. Missing or null mag and
// place properties become zero values; a missing time becomes the zero time.
func eventFromFeature(f *geojson.Feature) (domain.Event, bool) {
	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		return domain.Event{}, false
	}

	// Type assertions rather than Properties.Must*, which panic on a
	// present value of the wrong type.
	e := domain.Event{Geo: domain.Geo{Lat: pt.Lat(), Lon: pt.Lon()}}
	e.ID, _ = f.ID.(string)
	e.Place, _ = f.Properties["place"].(string)
	e.Magnitude, _ = f.Properties["mag"].(float64)
	if ms, ok := f.Properties["time"].(float64); ok {
		e.Time = time.UnixMilli(int64(ms)).UTC()
	}
	return e, true
}
