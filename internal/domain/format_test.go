package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByMagnitude(t *testing.T) {
	events := []Event{
		{ID: "a", Magnitude: 3.9},
		{ID: "b", Magnitude: 4.0},
		{ID: "c", Magnitude: 6.1},
		{ID: "d"}, // missing magnitude parses as 0
	}

	got := FilterByMagnitude(events, 4.0)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestFilterByMagnitude_ZeroKeepsEverythingInOrder(t *testing.T) {
	events := []Event{{ID: "x", Magnitude: 2}, {ID: "y"}, {ID: "z", Magnitude: 1}}
	got := FilterByMagnitude(events, 0)
	assert.Equal(t, events, got)
}

func TestFilterByMagnitude_NoMatches(t *testing.T) {
	got := FilterByMagnitude([]Event{{Magnitude: 1}}, 9)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseMinMagnitude(t *testing.T) {
	tests := map[string]float64{
		"":      0,
		"  ":    0,
		"4.5":   4.5,
		" 2 ":   2,
		"abc":   0,
		"NaN":   0,
		"+Inf":  0,
		"9.9":   9.9,
		"-1.5":  -1.5,
		"4.5xx": 0,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseMinMagnitude(in), "input %q", in)
	}
}

func TestParseWindow(t *testing.T) {
	for _, s := range []string{"1", "7", "30", " 7 "} {
		w, err := ParseWindow(s)
		require.NoError(t, err, s)
		assert.True(t, w.Valid())
	}

	_, err := ParseWindow("14")
	assert.True(t, errors.Is(err, ErrUnknownWindow))

	_, err = ParseWindow("week")
	assert.True(t, errors.Is(err, ErrUnknownWindow))
}

func TestWindow_Label(t *testing.T) {
	assert.Equal(t, "Ultime 24 ore", WindowDay.Label())
	assert.Equal(t, "Ultimi 7 giorni", WindowWeek.Label())
	assert.Equal(t, "Ultimi 30 giorni", WindowMonth.Label())
}

func TestTheme_Toggled(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggled())
	assert.Equal(t, ThemeLight, ThemeDark.Toggled())

	th, err := ParseTheme("DARK")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, th)

	_, err = ParseTheme("sepia")
	assert.Error(t, err)
}

func TestTablePlace(t *testing.T) {
	assert.Equal(t, "?", TablePlace(""))
	assert.Equal(t, "Tokyo, Japan", TablePlace("Tokyo, Japan"))
	assert.Equal(t, "exactly15chars!", TablePlace("exactly15chars!"))
	assert.Equal(t, "10 km SSW of Pa...", TablePlace("10 km SSW of Palermo, Italy"))
	assert.Equal(t, "Città del Messi...", TablePlace("Città del Messico, Mexico"))
}

func TestPopupPlace(t *testing.T) {
	assert.Equal(t, "?", PopupPlace(""))
	assert.Equal(t, "5 km N of Norcia, Italy", PopupPlace("5 km N of Norcia, Italy"))
}

func TestFormatTimeOfDay(t *testing.T) {
	ts := time.Date(2024, time.October, 3, 7, 5, 59, 0, time.UTC)
	assert.Equal(t, "07:05", FormatTimeOfDay(ts, time.UTC))

	rome := time.FixedZone("CEST", 2*60*60)
	assert.Equal(t, "09:05", FormatTimeOfDay(ts, rome))
}

func TestFormatMagnitude(t *testing.T) {
	assert.Equal(t, "4.0", FormatMagnitude(4))
	assert.Equal(t, "6.1", FormatMagnitude(6.12))
	assert.Equal(t, "0.0", FormatMagnitude(0))
}
