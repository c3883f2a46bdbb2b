package statusline

import (
	"strings"
	"testing"

	"github.com/dshills/vwindow/internal/renderer/backend"
	"github.com/dshills/vwindow/internal/window"
)

func newBackend(t *testing.T) *backend.NullBackend {
	t.Helper()
	b := backend.NewNullBackend(60, 3)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestStatusLine_Window(t *testing.T) {
	b := newBackend(t)
	g := window.Geometry{ItemExtent: 50, BufferCount: 20, TotalCount: 100000}

	s := New("template")
	s.Resize(60)
	s.SetWindow(window.Range{Start: 0, End: 32}, g, 0, 600)
	s.Render(b, 2)

	row := b.Row(2)
	if !strings.HasPrefix(row, " template ") {
		t.Errorf("expected source label, got %q", row)
	}
	if !strings.Contains(row, "item 1 of 100000  window [0, 32)") {
		t.Errorf("expected window info, got %q", row)
	}
	if !strings.HasSuffix(row, "Top") {
		t.Errorf("expected Top, got %q", row)
	}
}

func TestStatusLine_Position(t *testing.T) {
	g := window.Geometry{ItemExtent: 10, TotalCount: 100}
	tests := []struct {
		scroll   float64
		viewport float64
		want     string
	}{
		{0, 100, "Top"},
		{450, 100, "50%"},
		{900, 100, "Bot"},
		{0, 2000, "All"},
	}

	s := New("x")
	for _, tt := range tests {
		s.SetWindow(window.Range{}, g, tt.scroll, tt.viewport)
		if got := s.formatPosition(); got != tt.want {
			t.Errorf("scroll %g: expected %s, got %s", tt.scroll, tt.want, got)
		}
	}
}

func TestStatusLine_EmptyList(t *testing.T) {
	s := New("x")
	s.SetWindow(window.Range{}, window.Geometry{ItemExtent: 10}, 0, 100)
	if got := s.formatWindow(); got != "empty list" {
		t.Errorf("expected empty list, got %q", got)
	}
}

func TestStatusLine_Message(t *testing.T) {
	b := newBackend(t)

	s := New("script")
	s.Resize(60)
	s.SetMessage("render failure: factory item 7: boom", MessageError)
	s.Render(b, 0)

	if got := b.Row(0); got != "render failure: factory item 7: boom" {
		t.Errorf("unexpected message row %q", got)
	}
	if msg, typ := s.Message(); typ != MessageError || msg == "" {
		t.Errorf("unexpected message state %q %v", msg, typ)
	}

	s.ClearMessage()
	s.Render(b, 0)
	if got := b.Row(0); !strings.HasPrefix(got, " script ") {
		t.Errorf("expected status bar after clearing, got %q", got)
	}
}

func TestStatusLine_Truncates(t *testing.T) {
	b := newBackend(t)

	s := New("template")
	s.Resize(10)
	s.SetMessage(strings.Repeat("x", 40), MessageInfo)
	s.Render(b, 1)

	if got := b.Row(1); got != strings.Repeat("x", 10) {
		t.Errorf("expected 10 columns, got %q", got)
	}
}
