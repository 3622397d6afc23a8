package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// Default feed endpoints.
const (
	DefaultDayFeedURL   = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson"
	DefaultWeekFeedURL  = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"
	DefaultMonthFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_month.geojson"
	DefaultBordersURL   = "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	RefreshInterval time.Duration
	FeedTimeout     time.Duration
	DayFeedURL      string
	WeekFeedURL     string
	MonthFeedURL    string
	BordersURL      string

	// Initial Application State.
	DefaultWindow       domain.Window
	DefaultMinMagnitude float64
	DefaultTheme        domain.Theme
	Location            *time.Location

	// Optional Kafka event publisher.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parsePositiveDuration("FEED_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	window, err := domain.ParseWindow(sharedcfg.EnvOrDefault("DEFAULT_WINDOW", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_WINDOW: %w", err)
	}

	minMag, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("DEFAULT_MIN_MAGNITUDE", "0"), 64)
	if err != nil || minMag < 0 || math.IsNaN(minMag) || math.IsInf(minMag, 0) {
		return nil, errors.New("invalid DEFAULT_MIN_MAGNITUDE")
	}

	theme, err := domain.ParseTheme(sharedcfg.EnvOrDefault("DEFAULT_THEME", string(domain.ThemeLight)))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_THEME: %w", err)
	}

	loc, err := time.LoadLocation(sharedcfg.EnvOrDefault("TIME_ZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE: %w", err)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RefreshInterval: refreshInterval,
		FeedTimeout:     feedTimeout,
		DayFeedURL:      sharedcfg.EnvOrDefault("FEED_DAY_URL", DefaultDayFeedURL),
		WeekFeedURL:     sharedcfg.EnvOrDefault("FEED_WEEK_URL", DefaultWeekFeedURL),
		MonthFeedURL:    sharedcfg.EnvOrDefault("FEED_MONTH_URL", DefaultMonthFeedURL),
		BordersURL:      sharedcfg.EnvOrDefault("BORDERS_URL", DefaultBordersURL),

		DefaultWindow:       window,
		DefaultMinMagnitude: minMag,
		DefaultTheme:        theme,
		Location:            loc,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "earthquake-events"),
	}

	if cfg.DayFeedURL == "" || cfg.WeekFeedURL == "" || cfg.MonthFeedURL == "" {
		return nil, errors.New("FEED_DAY_URL, FEED_WEEK_URL and FEED_MONTH_URL must not be empty")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

// FeedURLs maps each time window to its feed endpoint.
func (c *Config) FeedURLs() map[domain.Window]string {
	return map[domain.Window]string{
		domain.WindowDay:   c.DayFeedURL,
		domain.WindowWeek:  c.WeekFeedURL,
		domain.WindowMonth: c.MonthFeedURL,
	}
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
