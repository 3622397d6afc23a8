package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/view"
)

const (
	tableWidth = 34
	placeCol   = 0
	magCol     = 20
	timeCol    = 26
)

type palette struct {
	base   tcell.Style
	header tcell.Style
	muted  tcell.Style
	border tcell.Style
}

func paletteFor(snap view.Snapshot) palette {
	bg, fg := tcell.ColorWhite, tcell.ColorBlack
	if snap.Theme == domain.ThemeDark {
		bg, fg = tcell.ColorBlack, tcell.ColorWhite
	}
	base := tcell.StyleDefault.Background(bg).Foreground(fg)
	p := palette{
		base:   base,
		header: base.Bold(true),
		muted:  base.Foreground(tcell.ColorGray),
		border: base.Foreground(tcell.ColorGray),
	}
	if snap.Borders != nil {
		p.border = base.Foreground(tcell.GetColor(snap.Borders.Color))
	}
	return p
}

func statusStyle(p palette, s view.StatusState) tcell.Style {
	switch s {
	case view.StatusError:
		return p.base.Foreground(tcell.ColorRed).Bold(true)
	case view.StatusLoading:
		return p.base.Foreground(tcell.ColorOrange)
	case view.StatusSuccess:
		return p.base.Foreground(tcell.ColorGreen)
	default:
		return p.muted
	}
}

func (t *TUI) draw() {
	snap := t.dash.Snapshot()
	p := paletteFor(snap)

	t.screen.SetStyle(p.base)
	t.screen.Clear()
	width, height := t.screen.Size()
	if width < tableWidth+10 || height < 6 {
		t.drawText(0, 0, width, "Terminale troppo piccolo", p.header)
		t.screen.Show()
		return
	}

	x := t.drawText(0, 0, width, snap.Title+"  ", p.header)
	x = t.drawText(x, 0, width, snap.Status.Text, statusStyle(p, snap.Status.State))
	t.drawText(x, 0, width, fmt.Sprintf("  | %s | min %s | %s", snap.Window.Label(), formatMinMag(snap.MinMagnitude), snap.ThemeButton), p.muted)

	if t.editing {
		t.drawText(0, 1, width, "Magnitudo min.: "+string(t.input)+"_", p.header)
	} else {
		t.drawText(0, 1, width, helpLine, p.muted)
	}

	mapWidth := width - tableWidth - 1
	mapTop, mapHeight := 2, height-3
	t.drawMap(0, mapTop, mapWidth, mapHeight, snap, p)

	for y := mapTop; y < mapTop+mapHeight; y++ {
		t.screen.SetContent(mapWidth, y, '|', nil, p.muted)
	}
	t.drawTable(mapWidth+1, mapTop, mapHeight, snap.Rows, p)
	t.drawLegend(0, height-1, width, snap.Legend, p)

	t.screen.Show()
}

// drawText writes s from (x, y), clipped at maxX, and returns the next column.
func (t *TUI) drawText(x, y, maxX int, s string, style tcell.Style) int {
	for _, r := range s {
		if x >= maxX {
			break
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

// project maps a coordinate onto a w x h equirectangular grid.
func project(lat, lon float64, w, h int) (int, int, bool) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	x := int((lon + 180) / 360 * float64(w-1))
	y := int((90 - lat) / 180 * float64(h-1))
	return x, y, true
}

func (t *TUI) drawMap(left, top, w, h int, snap view.Snapshot, p palette) {
	// Borders first so markers draw over them.
	if set, ok := t.dash.Borders(); ok && snap.Borders != nil {
		set.EachRing(func(r orb.Ring) {
			for _, pt := range r {
				if x, y, ok := project(pt.Lat(), pt.Lon(), w, h); ok {
					t.screen.SetContent(left+x, top+y, '·', nil, p.border)
				}
			}
		})
	}

	for _, m := range snap.Markers {
		x, y, ok := project(m.Lat, m.Lon, w, h)
		if !ok {
			continue
		}
		style := p.base.Foreground(tcell.GetColor(m.Style.Fill)).Bold(true)
		t.screen.SetContent(left+x, top+y, markerRune(m.Style), nil, style)
	}
}

// markerRune grows with severity the way marker radius does on the map.
func markerRune(s domain.Style) rune {
	for _, e := range domain.Legend() {
		if e.Color != s.Fill {
			continue
		}
		switch e.Bucket {
		case domain.BucketCritical:
			return '@'
		case domain.BucketStrong:
			return 'O'
		case domain.BucketMedium:
			return 'o'
		}
	}
	return '.'
}

func (t *TUI) drawTable(left, top, h int, rows []view.Row, p palette) {
	right := left + tableWidth
	t.drawText(left+placeCol, top, right, "Luogo", p.header)
	t.drawText(left+magCol, top, right, "Mag", p.header)
	t.drawText(left+timeCol, top, right, "Ora", p.header)

	for i, r := range rows {
		y := top + 1 + i
		if y >= top+h {
			break
		}
		t.drawText(left+placeCol, y, left+magCol-1, r.Place, p.base)
		t.drawText(left+magCol, y, left+timeCol-1, r.Magnitude, p.base)
		t.drawText(left+timeCol, y, right, r.Time, p.base)
	}
}

func (t *TUI) drawLegend(x, y, maxX int, legend []domain.LegendEntry, p palette) {
	for _, e := range legend {
		x = t.drawText(x, y, maxX, "● ", p.base.Foreground(tcell.GetColor(e.Color)))
		x = t.drawText(x, y, maxX, e.Label+"   ", p.muted)
	}
}
