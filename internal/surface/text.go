package surface

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/vwindow/internal/renderer/core"
	"github.com/dshills/vwindow/internal/window"
)

// Snapshot styles.
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	indexStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	visibleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB"))
	bufferStyle  = lipgloss.NewStyle().Faint(true)
)

// TextSurface is a window.Surface that renders to a string.
type TextSurface struct {
	geometry window.Geometry
	nodes    []window.Node
	offset   float64
}

// NewTextSurface creates an empty text surface.
func NewTextSurface(g window.Geometry) *TextSurface {
	return &TextSurface{geometry: g}
}

// Reset implements window.Surface.
func (s *TextSurface) Reset() error {
	s.nodes = s.nodes[:0]
	return nil
}

// Append implements window.Surface.
func (s *TextSurface) Append(n window.Node) error {
	s.nodes = append(s.nodes, n)
	return nil
}

// SetOffset implements window.Surface.
func (s *TextSurface) SetOffset(offset float64) error {
	s.offset = offset
	return nil
}

// Nodes returns the nodes on the surface.
func (s *TextSurface) Nodes() []window.Node {
	return s.nodes
}

// Offset returns the block translation.
func (s *TextSurface) Offset() float64 {
	return s.offset
}

// Render returns the window as text: a header line followed by one line per
// node. Nodes inside the viewport are highlighted, buffer nodes are faint.
func (s *TextSurface) Render(vs window.ViewportState) string {
	var b strings.Builder

	first, last := -1, -1
	if len(s.nodes) > 0 {
		first, last = s.nodes[0].Index, s.nodes[len(s.nodes)-1].Index
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf(
		"window [%d, %d] of %d  translateY=%gpx  scroll=%gpx  viewport=%gpx",
		first, last, s.geometry.TotalCount, s.offset, vs.ScrollOffset, vs.ViewportExtent)))

	visible := visibleRange(s.geometry, vs)
	width := len(strconv.Itoa(s.geometry.TotalCount))

	for _, n := range s.nodes {
		b.WriteByte('\n')
		b.WriteString(indexStyle.Render(fmt.Sprintf("%*d", width, n.Index)))
		b.WriteString("  ")

		style := bufferStyle
		if visible.Contains(n.Index) {
			style = visibleStyle
		}
		b.WriteString(applyNodeStyle(style, n.Style).Render(n.Text))
	}

	return b.String()
}

// visibleRange returns the items intersecting the viewport, without buffer.
func visibleRange(g window.Geometry, vs window.ViewportState) window.Range {
	unbuffered := g
	unbuffered.BufferCount = 0
	r, err := unbuffered.Range(vs)
	if err != nil {
		return window.Range{}
	}
	return r
}

// applyNodeStyle layers a node's own colors over base.
func applyNodeStyle(base lipgloss.Style, s core.Style) lipgloss.Style {
	if s.IsZero() {
		return base
	}
	if fg := s.Foreground; !fg.IsDefault() {
		base = base.Foreground(lipColor(fg))
	}
	if bg := s.Background; !bg.IsDefault() {
		base = base.Background(lipColor(bg))
	}
	if s.Attributes.Has(core.AttrBold) {
		base = base.Bold(true)
	}
	return base
}

func lipColor(c core.Color) lipgloss.Color {
	if c.Indexed {
		return lipgloss.Color(strconv.Itoa(int(c.R)))
	}
	return lipgloss.Color(c.String())
}
