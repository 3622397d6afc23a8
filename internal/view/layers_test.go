package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkerLayer_ReplaceIsFull(t *testing.T) {
	var l MarkerLayer
	l.Add(Marker{ID: "old"})

	l.Replace([]Marker{{ID: "a"}, {ID: "b"}})
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "a", l.Markers()[0].ID)
	assert.Equal(t, "b", l.Markers()[1].ID)

	l.Replace(nil)
	assert.Zero(t, l.Len())
	assert.NotNil(t, l.Markers())
}

func TestMarkerLayer_MarkersReturnsCopy(t *testing.T) {
	var l MarkerLayer
	l.Add(Marker{ID: "a"})

	ms := l.Markers()
	ms[0].ID = "mutated"
	assert.Equal(t, "a", l.Markers()[0].ID)
}

func TestTable_Replace(t *testing.T) {
	var tb Table
	tb.Append(Row{Place: "stale"})
	tb.Replace([]Row{{Place: "x"}})

	assert.Equal(t, []Row{{Place: "x"}}, tb.Rows())
	tb.Clear()
	assert.Empty(t, tb.Rows())
}

func TestBorderLayer_SetStyleKeepsFillOff(t *testing.T) {
	b := NewBorderLayer("#555555")
	assert.Equal(t, BorderStyle{Color: "#555555", Weight: 1}, b.Style())

	b.SetStyle("#cccccc", 1)
	assert.Equal(t, "#cccccc", b.Style().Color)
	assert.Zero(t, b.Style().FillOpacity)
}
