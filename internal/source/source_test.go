package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/vwindow/internal/renderer/core"
	"github.com/dshills/vwindow/internal/window"
)

func TestTemplateLabel(t *testing.T) {
	tests := []struct {
		pattern string
		index   int
		want    string
	}{
		{"", 0, "Item 1"},
		{"", 99999, "Item 100000"},
		{"row {i}", 7, "row 7"},
		{"#{n} ({i})", 4, "#5 (4)"},
		{"static", 3, "static"},
	}

	for _, tt := range tests {
		tmpl := NewTemplate(tt.pattern)
		n, err := tmpl.Node(tt.index)
		if err != nil {
			t.Fatalf("Node failed: %v", err)
		}
		if n.Text != tt.want {
			t.Errorf("pattern %q index %d: expected %q, got %q", tt.pattern, tt.index, tt.want, n.Text)
		}
		if n.Index != tt.index {
			t.Errorf("expected index %d, got %d", tt.index, n.Index)
		}
	}
}

const sampleJSON = `{
  "data": {
    "rows": [
      {"name": "alpha", "id": 1},
      {"name": "beta", "id": 2},
      {"id": 3}
    ]
  },
  "plain": ["x", "y"]
}`

func TestJSONSource(t *testing.T) {
	src, err := ParseJSON([]byte(sampleJSON), "data.rows", "name")
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if src.Count() != 3 {
		t.Errorf("expected 3 items, got %d", src.Count())
	}

	n, err := src.Node(1)
	if err != nil {
		t.Fatalf("Node failed: %v", err)
	}
	if n.Text != "beta" {
		t.Errorf("expected beta, got %q", n.Text)
	}

	if _, err := src.Node(2); !errors.Is(err, ErrBadSource) {
		t.Errorf("expected ErrBadSource for missing field, got %v", err)
	}
	if _, err := src.Node(3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestJSONSourceWithoutField(t *testing.T) {
	src, err := ParseJSON([]byte(sampleJSON), "plain", "")
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	n, _ := src.Node(1)
	if n.Text != "y" {
		t.Errorf("expected y, got %q", n.Text)
	}
}

func TestJSONSourceErrors(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"a":`), "", ""); !errors.Is(err, ErrBadSource) {
		t.Errorf("expected ErrBadSource for invalid JSON, got %v", err)
	}
	if _, err := ParseJSON([]byte(sampleJSON), "data", ""); !errors.Is(err, ErrBadSource) {
		t.Errorf("expected ErrBadSource for non-array path, got %v", err)
	}
	if _, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json"), "", ""); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(path, []byte(`["one","two","three"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := LoadJSON(path, "", "")
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if src.Count() != 3 {
		t.Errorf("expected 3 items, got %d", src.Count())
	}
}

func TestScriptStringItems(t *testing.T) {
	s, err := NewScript("test", `
count = 250
function item(index)
  return "Row " .. (index + 1)
end
`)
	if err != nil {
		t.Fatalf("NewScript failed: %v", err)
	}
	defer s.Close()

	n, err := s.Node(9)
	if err != nil {
		t.Fatalf("Node failed: %v", err)
	}
	if n.Text != "Row 10" || n.Index != 9 {
		t.Errorf("unexpected node %+v", n)
	}

	count, ok := s.Count()
	if !ok || count != 250 {
		t.Errorf("expected count 250, got %d (%v)", count, ok)
	}
}

func TestScriptTableItems(t *testing.T) {
	s, err := NewScript("test", `
function item(index)
  if index % 2 == 0 then
    return {text = "even " .. index, fg = "#ff0000", bold = true}
  end
  return {text = "odd " .. index}
end
`)
	if err != nil {
		t.Fatalf("NewScript failed: %v", err)
	}
	defer s.Close()

	n, err := s.Node(2)
	if err != nil {
		t.Fatalf("Node failed: %v", err)
	}
	want := core.DefaultStyle().WithForeground(core.ColorFromRGB(255, 0, 0)).Bold()
	if n.Text != "even 2" || !n.Style.Equals(want) {
		t.Errorf("unexpected node %+v", n)
	}

	n, _ = s.Node(3)
	if !n.Style.IsZero() {
		t.Errorf("expected unstyled node, got %+v", n.Style)
	}
}

func TestScriptErrors(t *testing.T) {
	if _, err := NewScript("nofunc", `x = 1`); !errors.Is(err, ErrNoItemFunc) {
		t.Errorf("expected ErrNoItemFunc, got %v", err)
	}
	if _, err := NewScript("syntax", `function item(`); err == nil {
		t.Error("expected syntax error")
	}

	s, err := NewScript("bad", `
function item(index)
  if index == 3 then error("no item three") end
  if index == 4 then return nil end
  return {colour = "red"}
end
`)
	if err != nil {
		t.Fatalf("NewScript failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Node(3); err == nil {
		t.Error("expected runtime error")
	}
	if _, err := s.Node(4); !errors.Is(err, ErrBadSource) {
		t.Errorf("expected ErrBadSource for nil, got %v", err)
	}
	if _, err := s.Node(5); !errors.Is(err, ErrBadSource) {
		t.Errorf("expected ErrBadSource for table without text, got %v", err)
	}
}

func TestScriptSandbox(t *testing.T) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		code := `if ` + name + ` ~= nil then error("` + name + ` available") end
function item(i) return "" end`
		if _, err := NewScript(name, code); err != nil {
			t.Errorf("%s should be removed: %v", name, err)
		}
	}

	if _, err := NewScript("io", `io.open("/etc/passwd") function item(i) return "" end`); err == nil {
		t.Error("io library should not be available")
	}
}

func TestScriptTimeout(t *testing.T) {
	s, err := NewScript("spin", `
function item(index)
  while true do end
end
`, WithCallTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewScript failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Node(0); err == nil {
		t.Error("expected timeout error")
	}
}

func TestScriptClosed(t *testing.T) {
	s, err := NewScript("test", `function item(i) return "x" end`)
	if err != nil {
		t.Fatalf("NewScript failed: %v", err)
	}
	s.Close()
	s.Close()

	if _, err := s.Node(0); !errors.Is(err, ErrStateClosed) {
		t.Errorf("expected ErrStateClosed, got %v", err)
	}
	if _, ok := s.Count(); ok {
		t.Error("closed script should not report a count")
	}
}

func TestLoadScriptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.lua")
	if err := os.WriteFile(path, []byte(`function item(i) return "file " .. i end`), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadScript(path)
	if err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	defer s.Close()

	if _, ok := s.Count(); ok {
		t.Error("script without count should not report one")
	}
	n, _ := s.Node(1)
	if n.Text != "file 1" {
		t.Errorf("expected \"file 1\", got %q", n.Text)
	}
}

// A failing script behind a List must leave the surface untouched.
func TestScriptFailureThroughList(t *testing.T) {
	s, err := NewScript("flaky", `
function item(index)
  if index >= 10 then error("unavailable") end
  return "ok " .. index
end
`)
	if err != nil {
		t.Fatalf("NewScript failed: %v", err)
	}
	defer s.Close()

	surf := &recordSurface{}
	g := window.Geometry{ItemExtent: 1, BufferCount: 0, TotalCount: 100}
	list, err := window.NewList(g, surf, s.Node)
	if err != nil {
		t.Fatalf("NewList failed: %v", err)
	}

	if _, err := list.OnScroll(window.ViewportState{ScrollOffset: 0, ViewportExtent: 5}); err != nil {
		t.Fatalf("OnScroll failed: %v", err)
	}
	if _, err := list.OnScroll(window.ViewportState{ScrollOffset: 8, ViewportExtent: 5}); !errors.Is(err, window.ErrRenderFailure) {
		t.Fatalf("expected ErrRenderFailure, got %v", err)
	}
	if len(surf.nodes) != 5 || surf.nodes[0].Text != "ok 0" {
		t.Errorf("surface changed: %+v", surf.nodes)
	}
}

type recordSurface struct {
	nodes  []window.Node
	offset float64
}

func (s *recordSurface) Reset() error                   { s.nodes = nil; return nil }
func (s *recordSurface) Append(n window.Node) error     { s.nodes = append(s.nodes, n); return nil }
func (s *recordSurface) SetOffset(offset float64) error { s.offset = offset; return nil }
