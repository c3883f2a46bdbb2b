package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vwindow/internal/renderer/core"
)

func TestNullBackendInit(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size 80x24, got %dx%d", w, h)
	}
}

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(10, 5)
	_ = b.Init()

	cell := core.NewStyledCell('X', core.DefaultStyle().Bold())
	b.SetCell(3, 2, cell)

	if got := b.GetCell(3, 2); !got.Equals(cell) {
		t.Errorf("expected %+v, got %+v", cell, got)
	}

	// Out of bounds writes are ignored and reads return an empty cell.
	b.SetCell(-1, 0, cell)
	b.SetCell(10, 0, cell)
	if got := b.GetCell(99, 99); !got.Equals(core.EmptyCell()) {
		t.Errorf("expected empty cell out of bounds, got %+v", got)
	}
}

func TestNullBackendFill(t *testing.T) {
	b := NewNullBackend(10, 5)
	_ = b.Init()

	b.Fill(core.ScreenRect{Top: -2, Left: 8, Bottom: 2, Right: 20}, core.NewStyledCell('#', core.DefaultStyle()))

	if b.Row(0) != "        ##" {
		t.Errorf("unexpected row 0: %q", b.Row(0))
	}
	if b.Row(2) != "" {
		t.Errorf("expected row 2 untouched, got %q", b.Row(2))
	}
}

func TestNullBackendPostEvent(t *testing.T) {
	b := NewNullBackend(10, 5)
	b.PostEvent(Event{Type: EventInterrupt, Data: "reload"})

	ev := b.PollEvent()
	if ev.Type != EventInterrupt || ev.Data != "reload" {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestNullBackendResize(t *testing.T) {
	b := NewNullBackend(10, 5)
	_ = b.Init()

	b.Resize(20, 8)

	w, h := b.Size()
	if w != 20 || h != 8 {
		t.Errorf("expected 20x8, got %dx%d", w, h)
	}
	ev := b.PollEvent()
	if ev.Type != EventResize || ev.Width != 20 || ev.Height != 8 {
		t.Errorf("expected resize event, got %+v", ev)
	}
}

func TestModMaskHas(t *testing.T) {
	m := ModShift | ModCtrl
	if !m.Has(ModShift) || !m.Has(ModCtrl) {
		t.Error("expected shift and ctrl")
	}
	if m.Has(ModAlt) {
		t.Error("alt should not be set")
	}
}

func TestStyleConversionRoundTrip(t *testing.T) {
	styles := []core.Style{
		core.DefaultStyle(),
		core.DefaultStyle().Bold(),
		core.DefaultStyle().WithForeground(core.ColorFromRGB(10, 20, 30)).Reverse(),
		core.DefaultStyle().WithBackground(core.ColorFromIndex(4)).Dim(),
	}

	for _, s := range styles {
		got := convertTcellStyle(convertStyle(s))
		if !got.Equals(s) {
			t.Errorf("round trip mismatch: %+v -> %+v", s, got)
		}
	}
}

func TestConvertEvent(t *testing.T) {
	ev := convertEvent(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone))
	if ev.Type != EventKey || ev.Key != KeyPageDown {
		t.Errorf("expected page down key, got %+v", ev)
	}

	ev = convertEvent(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone))
	if ev.Key != KeyRune || ev.Rune != 'j' {
		t.Errorf("expected rune j, got %+v", ev)
	}

	ev = convertEvent(tcell.NewEventMouse(1, 2, tcell.WheelDown, tcell.ModNone))
	if ev.Type != EventMouse || ev.MouseButton != MouseWheelDown {
		t.Errorf("expected wheel down, got %+v", ev)
	}

	ev = convertEvent(tcell.NewEventResize(100, 40))
	if ev.Type != EventResize || ev.Width != 100 || ev.Height != 40 {
		t.Errorf("expected resize 100x40, got %+v", ev)
	}

	ev = convertEvent(tcell.NewEventInterrupt(42))
	if ev.Type != EventInterrupt || ev.Data != 42 {
		t.Errorf("expected interrupt with 42, got %+v", ev)
	}
}

func TestTerminalSimulation(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	term := newTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Shutdown()

	cell := core.NewStyledCell('Z', core.DefaultStyle().Bold())
	term.SetCell(1, 1, cell)
	if got := term.GetCell(1, 1); !got.Equals(cell) {
		t.Errorf("expected %+v, got %+v", cell, got)
	}

	term.PostEvent(Event{Type: EventInterrupt, Data: "ping"})
	for i := 0; i < 5; i++ {
		ev := term.PollEvent()
		if ev.Type == EventInterrupt {
			if ev.Data != "ping" {
				t.Errorf("expected ping, got %v", ev.Data)
			}
			return
		}
	}
	t.Error("interrupt event not delivered")
}
