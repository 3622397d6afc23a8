// Command feedcheck fetches every configured feed once and verifies that the
// dashboard could render it: each window feed parses, records are
// well-formed, the render pipeline honors its caps, and the border overlay
// loads. Feed URLs come from the same environment variables as the service.
//
// Usage:
//
//	go run ./cmd/feedcheck -min-mag 2.5
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/quake-map-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/dashboard"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	minMag := flag.Float64("min-mag", 0, "minimum magnitude used for the render check")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline for all requests")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if code := run(ctx, cfg, *minMag); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, cfg *config.Config, minMag float64) int {
	fmt.Println("=== Earthquake Feed Check ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := usgs.NewClient(cfg.FeedURLs(), cfg.BordersURL, cfg.FeedTimeout, observability.NewMetricsForTesting(), logger)

	feeds, fetchPhase := fetchFeeds(ctx, client)
	phases := []*phase{
		fetchPhase,
		validateRecords(feeds),
		validateRender(feeds, minMag, cfg.Location),
		validateBorders(ctx, client),
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	for _, w := range domain.Windows {
		fmt.Printf("%-18s %d events\n", w.Label()+":", len(feeds[w]))
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll checks passed.")
		return 0
	}
	fmt.Println("\nCheck FAILED.")
	return 1
}

// ── Phase 1: Fetch ──

func fetchFeeds(ctx context.Context, client *usgs.Client) (map[domain.Window][]domain.Event, *phase) {
	p := &phase{name: "Phase 1: Event feeds (fetch + parse)"}
	feeds := make(map[domain.Window][]domain.Event, len(domain.Windows))
	for _, w := range domain.Windows {
		events, err := client.FetchEvents(ctx, w)
		if err != nil {
			p.errorf("%s: %v", w.Label(), err)
			continue
		}
		feeds[w] = events
	}
	return feeds, p
}

// ── Phase 2: Records ──
// Every record the dashboard would plot must carry an ID, a real coordinate,
// a time, and a finite magnitude.

func validateRecords(feeds map[domain.Window][]domain.Event) *phase {
	p := &phase{name: "Phase 2: Event records"}
	for _, w := range domain.Windows {
		seen := make(map[string]bool, len(feeds[w]))
		for i, e := range feeds[w] {
			where := fmt.Sprintf("%s #%d (%s)", w.Label(), i, e.ID)
			if e.ID == "" {
				p.errorf("%s: missing id", where)
			} else if seen[e.ID] {
				p.errorf("%s: duplicate id", where)
			}
			seen[e.ID] = true

			if e.Geo.Lat < -90 || e.Geo.Lat > 90 || e.Geo.Lon < -180 || e.Geo.Lon > 180 {
				p.errorf("%s: coordinate out of range (%.3f, %.3f)", where, e.Geo.Lat, e.Geo.Lon)
			}
			if e.Time.IsZero() {
				p.errorf("%s: missing time", where)
			}
			if math.IsNaN(e.Magnitude) || math.IsInf(e.Magnitude, 0) {
				p.errorf("%s: non-finite magnitude", where)
			}
		}
	}
	return p
}

// ── Phase 3: Render ──

func validateRender(feeds map[domain.Window][]domain.Event, minMag float64, loc *time.Location) *phase {
	p := &phase{name: "Phase 3: Render pipeline"}
	for _, w := range domain.Windows {
		filtered := domain.FilterByMagnitude(feeds[w], minMag)
		markers, rows := dashboard.Render(filtered, loc)

		if len(markers) != len(filtered) {
			p.errorf("%s: %d markers for %d events", w.Label(), len(markers), len(filtered))
		}
		if want := min(len(filtered), domain.MaxTableRows); len(rows) != want {
			p.errorf("%s: %d table rows, want %d", w.Label(), len(rows), want)
		}
		for i, m := range markers {
			e := filtered[i]
			if m.ID != e.ID {
				p.errorf("%s: marker %d is %s, want %s (feed order)", w.Label(), i, m.ID, e.ID)
			}
			if m.Style != domain.ColorFor(e.Magnitude) {
				p.errorf("%s: marker %s has style %+v for magnitude %g", w.Label(), m.ID, m.Style, e.Magnitude)
			}
			if m.Radius < domain.RadiusFor(minMag) {
				p.errorf("%s: marker %s radius %.0f below the minimum for the threshold", w.Label(), m.ID, m.Radius)
			}
		}
	}
	return p
}

// ── Phase 4: Borders ──

func validateBorders(ctx context.Context, client *usgs.Client) *phase {
	p := &phase{name: "Phase 4: Border overlay"}
	set, err := client.FetchBorders(ctx)
	if err != nil {
		p.errorf("fetch: %v", err)
		return p
	}
	if set.Len() == 0 {
		p.errorf("no features")
	}
	rings := 0
	set.EachRing(func(r orb.Ring) {
		rings++
		if len(r) < 4 {
			p.errorf("ring with %d points", len(r))
		}
	})
	if rings == 0 {
		p.errorf("no polygon rings in %d features", set.Len())
	}
	return p
}
