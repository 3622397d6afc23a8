// Package tui is the terminal surface of the dashboard. It draws the latest
// snapshot on a tcell screen and maps key presses to the control panel
// operations.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/view"
)

// Dashboard is the state the terminal draws and the controls it drives.
type Dashboard interface {
	Snapshot() view.Snapshot
	Borders() (*domain.BorderSet, bool)
	Updates() <-chan struct{}
	SetWindow(ctx context.Context, w domain.Window) error
	SetMinMagnitude(ctx context.Context, raw string) error
	ToggleTheme() domain.Theme
}

const helpLine = "[1] 24 ore  [7] 7 giorni  [3] 30 giorni  [m] magnitudo  [t] tema  [q] esci"

// TUI owns an initialized screen for the duration of Run.
type TUI struct {
	screen tcell.Screen
	dash   Dashboard
	logger *slog.Logger

	ctx     context.Context
	actions sync.WaitGroup

	editing bool
	input   []rune
}

// New creates a TUI on a screen the caller has already initialized.
func New(screen tcell.Screen, dash Dashboard, logger *slog.Logger) *TUI {
	return &TUI{
		screen: screen,
		dash:   dash,
		logger: logger,
		ctx:    context.Background(),
	}
}

// Run draws and handles input until the user quits or ctx is cancelled.
// Control actions that refresh run in the background so the screen keeps
// redrawing while a feed request is in flight.
func (t *TUI) Run(ctx context.Context) error {
	t.ctx = ctx
	defer t.actions.Wait()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go t.screen.ChannelEvents(events, quit)

	t.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.dash.Updates():
			t.draw()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if t.handleEvent(ev) {
				return nil
			}
			t.draw()
		}
	}
}

// handleEvent applies one input event and reports whether to quit.
func (t *TUI) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		if t.editing {
			t.handleEditKey(ev)
			return false
		}
		switch ev.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			return true
		case tcell.KeyRune:
			return t.handleRune(ev.Rune())
		}
	}
	return false
}

func (t *TUI) handleRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		return true
	case '1':
		t.setWindow(domain.WindowDay)
	case '7':
		t.setWindow(domain.WindowWeek)
	case '3':
		t.setWindow(domain.WindowMonth)
	case 't', 'T':
		t.dash.ToggleTheme()
	case 'm', 'M':
		t.editing = true
		t.input = []rune(formatMinMag(t.dash.Snapshot().MinMagnitude))
	}
	return false
}

func (t *TUI) handleEditKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		raw := string(t.input)
		t.editing, t.input = false, nil
		t.act("set minimum magnitude", func(ctx context.Context) error {
			return t.dash.SetMinMagnitude(ctx, raw)
		})
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.editing, t.input = false, nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(t.input) > 0 {
			t.input = t.input[:len(t.input)-1]
		}
	case tcell.KeyRune:
		if len(t.input) < 8 {
			t.input = append(t.input, ev.Rune())
		}
	}
}

func (t *TUI) setWindow(w domain.Window) {
	t.act("set window", func(ctx context.Context) error {
		return t.dash.SetWindow(ctx, w)
	})
}

// act runs a refreshing control in the background. Feed failures already
// show up in the status line.
func (t *TUI) act(name string, fn func(ctx context.Context) error) {
	t.actions.Add(1)
	go func() {
		defer t.actions.Done()
		if err := fn(t.ctx); err != nil {
			t.logger.Debug("control action did not apply", "action", name, "error", err)
		}
	}()
}

func formatMinMag(v float64) string {
	return fmt.Sprintf("%g", v)
}
