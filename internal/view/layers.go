package view

import "slices"

// MarkerLayer is the event layer group. Its content is only ever replaced
// as a whole by Replace.
type MarkerLayer struct {
	markers []Marker
}

// Clear removes every marker.
func (l *MarkerLayer) Clear() {
	l.markers = nil
}

// Add appends a marker.
func (l *MarkerLayer) Add(m Marker) {
	l.markers = append(l.markers, m)
}

// Replace clears the layer and adds ms in order.
func (l *MarkerLayer) Replace(ms []Marker) {
	l.Clear()
	for _, m := range ms {
		l.Add(m)
	}
}

// Len returns the marker count.
func (l *MarkerLayer) Len() int {
	return len(l.markers)
}

// Markers returns a copy of the markers.
func (l *MarkerLayer) Markers() []Marker {
	out := slices.Clone(l.markers)
	if out == nil {
		return []Marker{}
	}
	return out
}

// Table is the summary table body.
type Table struct {
	rows []Row
}

// Clear removes every row.
func (t *Table) Clear() {
	t.rows = nil
}

// Append adds a row at the bottom.
func (t *Table) Append(r Row) {
	t.rows = append(t.rows, r)
}

// Replace clears the table and appends rs in order.
func (t *Table) Replace(rs []Row) {
	t.Clear()
	for _, r := range rs {
		t.Append(r)
	}
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows.
func (t *Table) Rows() []Row {
	out := slices.Clone(t.rows)
	if out == nil {
		return []Row{}
	}
	return out
}

// BorderLayer is the non-interactive country outline overlay.
type BorderLayer struct {
	style BorderStyle
}

// NewBorderLayer creates an outline-only layer with the given stroke color.
func NewBorderLayer(color string) *BorderLayer {
	return &BorderLayer{style: BorderStyle{Color: color, Weight: 1, FillOpacity: 0}}
}

// SetStyle restyles the stroke. Fill stays disabled.
func (b *BorderLayer) SetStyle(color string, weight int) {
	b.style.Color = color
	b.style.Weight = weight
}

// Style returns the current stroke.
func (b *BorderLayer) Style() BorderStyle {
	return b.style
}
