// Command quaketui runs the earthquake dashboard in a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/gdamore/tcell/v2"

	"github.com/couchcryptid/quake-map-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/dashboard"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/pipeline"
	"github.com/couchcryptid/quake-map-service/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "quaketui: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The screen owns stdout; logs go to TUI_LOG_FILE or nowhere.
	logger, closeLog, err := newFileLogger(sharedcfg.EnvOrDefault("TUI_LOG_FILE", ""), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer closeLog()

	metrics := observability.NewMetrics()
	client := usgs.NewClient(cfg.FeedURLs(), cfg.BordersURL, cfg.FeedTimeout, metrics, logger)
	dash := dashboard.New(client, client, dashboard.Options{
		Window:       cfg.DefaultWindow,
		MinMagnitude: cfg.DefaultMinMagnitude,
		Theme:        cfg.DefaultTheme,
		Location:     cfg.Location,
	}, logger, metrics)
	scheduler := pipeline.New(dash, cfg.RefreshInterval, nil, logger, metrics)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		if err := scheduler.Run(ctx); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	err = tui.New(screen, dash, logger).Run(ctx)
	stop()
	<-schedulerDone
	return err
}

func newFileLogger(path, level, format string) (*slog.Logger, func(), error) {
	var w io.Writer = io.Discard
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts)), closeFn, nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), closeFn, nil
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
