package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownWindow is returned when a time window other than 1, 7 or 30 days is requested.
var ErrUnknownWindow = errors.New("unknown time window")

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event is one earthquake as read from the feed. Events are rebuilt on every
// refresh and never mutated after parsing.
type Event struct {
	ID        string    `json:"id"`
	Place     string    `json:"place,omitempty"`
	Magnitude float64   `json:"magnitude"`
	Geo       Geo       `json:"geo"`
	Time      time.Time `json:"time"`
}

// Window is the feed time window in days.
type Window int

const (
	WindowDay   Window = 1
	WindowWeek  Window = 7
	WindowMonth Window = 30
)

// Windows lists the selectable windows in display order.
var Windows = []Window{WindowDay, WindowWeek, WindowMonth}

// Valid reports whether w is one of the three supported windows.
func (w Window) Valid() bool {
	switch w {
	case WindowDay, WindowWeek, WindowMonth:
		return true
	}
	return false
}

// Label is the human-readable name shown in the selector and the status line.
func (w Window) Label() string {
	switch w {
	case WindowDay:
		return "Ultime 24 ore"
	case WindowWeek:
		return "Ultimi 7 giorni"
	case WindowMonth:
		return "Ultimi 30 giorni"
	default:
		return "?"
	}
}

func (w Window) String() string {
	return strconv.Itoa(int(w))
}

// ParseWindow parses a day count ("1", "7" or "30").
func ParseWindow(s string) (Window, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse window %q: %w", s, ErrUnknownWindow)
	}
	w := Window(n)
	if !w.Valid() {
		return 0, fmt.Errorf("window %d days: %w", n, ErrUnknownWindow)
	}
	return w, nil
}

// Theme is the visual mode of the dashboard.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme accepts "light" or "dark" (case-insensitive).
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}
