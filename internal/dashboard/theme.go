package dashboard

import "github.com/couchcryptid/quake-map-service/internal/domain"

// Base map tile sources.
const (
	LightTileURL    = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	DarkTileURL     = "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png"
	tileAttribution = "&copy; OpenStreetMap &copy; CARTO"
)

const borderWeight = 1

type themePreset struct {
	tileURL     string
	borderColor string
	buttonLabel string // names the action the button performs
	bodyClass   string
}

var themePresets = map[domain.Theme]themePreset{
	domain.ThemeLight: {
		tileURL:     LightTileURL,
		borderColor: "#555555",
		buttonLabel: "Dark mode",
		bodyClass:   "",
	},
	domain.ThemeDark: {
		tileURL:     DarkTileURL,
		borderColor: "#cccccc",
		buttonLabel: "Chiaro",
		bodyClass:   "dark-theme",
	},
}

// ToggleTheme switches between light and dark and returns the new theme.
// The border overlay is restyled only if it has loaded.
func (d *Dashboard) ToggleTheme() domain.Theme {
	d.mu.Lock()
	next := d.state.Theme.Toggled()
	d.applyThemeLocked(next)
	d.mu.Unlock()

	d.metrics.ThemeToggles.Inc()
	d.logger.Info("theme toggled", "theme", string(next))
	d.notify()
	return next
}

func (d *Dashboard) applyThemeLocked(t domain.Theme) {
	p := themePresets[t]
	d.state.Theme = t
	d.state.BodyClass = p.bodyClass
	d.state.ThemeButton = p.buttonLabel
	d.state.Base.URL = p.tileURL
	if d.state.Borders != nil {
		d.state.Borders.SetStyle(p.borderColor, borderWeight)
	}
}
