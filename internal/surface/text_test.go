package surface

import (
	"strings"
	"testing"

	"github.com/dshills/vwindow/internal/window"
)

func TestTextSurfaceRender(t *testing.T) {
	g := window.Geometry{ItemExtent: 50, BufferCount: 20, TotalCount: 100000}
	s := NewTextSurface(g)

	list, err := window.NewList(g, s, itemLabel)
	if err != nil {
		t.Fatalf("NewList failed: %v", err)
	}

	vs := window.ViewportState{ScrollOffset: 1000, ViewportExtent: 400}
	if _, err := list.OnScroll(vs); err != nil {
		t.Fatalf("OnScroll failed: %v", err)
	}

	if len(s.Nodes()) != 48 {
		t.Fatalf("expected 48 nodes, got %d", len(s.Nodes()))
	}
	if s.Offset() != 0 {
		t.Errorf("expected offset 0, got %v", s.Offset())
	}

	out := s.Render(vs)
	if !strings.Contains(out, "window [0, 47] of 100000") {
		t.Errorf("missing header in:\n%s", out)
	}
	if n := strings.Count(out, "\n"); n != 48 {
		t.Errorf("expected 48 item lines, got %d", n)
	}
	if !strings.Contains(out, "Item 21") || !strings.Contains(out, "Item 48") {
		t.Errorf("missing item labels in:\n%s", out)
	}
}

func TestTextSurfaceEmpty(t *testing.T) {
	s := NewTextSurface(window.Geometry{ItemExtent: 1})
	out := s.Render(window.ViewportState{ViewportExtent: 10})
	if !strings.Contains(out, "window [-1, -1] of 0") {
		t.Errorf("unexpected empty render: %q", out)
	}
}
