// Package surface provides host containers that a window.Renderer draws into.
//
// CellSurface emulates a scroll container on a terminal backend: the
// renderer places nodes and sets the block translation, the host sets the
// scroll position, and Paint maps both onto screen rows. TextSurface keeps
// the same state and renders it as a styled text snapshot.
package surface

import (
	"math"

	"github.com/dshills/vwindow/internal/renderer/backend"
	"github.com/dshills/vwindow/internal/renderer/core"
	"github.com/dshills/vwindow/internal/window"
)

// Theme holds the styles a surface paints with.
type Theme struct {
	Item     core.Style // Even rows
	ItemAlt  core.Style // Odd rows
	Track    core.Style // Scrollbar track
	Thumb    core.Style // Scrollbar thumb
	Overflow core.Style // Rows with no node
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		Item:     core.DefaultStyle(),
		ItemAlt:  core.DefaultStyle().WithBackground(core.ColorFromIndex(236)),
		Track:    core.DefaultStyle().WithForeground(core.ColorGray),
		Thumb:    core.DefaultStyle().WithForeground(core.ColorWhite),
		Overflow: core.DefaultStyle(),
	}
}

// CellOption configures a CellSurface.
type CellOption func(*CellSurface)

// WithTheme sets the surface theme.
func WithTheme(t Theme) CellOption {
	return func(s *CellSurface) {
		s.theme = t
	}
}

// WithScrollbar enables or disables the one-column scrollbar.
func WithScrollbar(enabled bool) CellOption {
	return func(s *CellSurface) {
		s.scrollbar = enabled
	}
}

// WithCellExtent sets how many scroll units one terminal row represents.
func WithCellExtent(extent float64) CellOption {
	return func(s *CellSurface) {
		if extent > 0 {
			s.cellExtent = extent
		}
	}
}

// CellSurface is a window.Surface backed by a terminal region.
type CellSurface struct {
	backend  backend.Backend
	geometry window.Geometry
	area     core.ScreenRect

	// Scroll units per terminal row.
	cellExtent float64
	scrollbar  bool
	theme      Theme

	nodes  []window.Node
	offset float64
	scroll float64
}

// NewCellSurface creates a surface drawing into area of b.
func NewCellSurface(b backend.Backend, g window.Geometry, area core.ScreenRect, opts ...CellOption) *CellSurface {
	s := &CellSurface{
		backend:    b,
		geometry:   g,
		area:       area,
		cellExtent: 1,
		scrollbar:  true,
		theme:      DefaultTheme(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset implements window.Surface.
func (s *CellSurface) Reset() error {
	s.nodes = s.nodes[:0]
	return nil
}

// Append implements window.Surface.
func (s *CellSurface) Append(n window.Node) error {
	s.nodes = append(s.nodes, n)
	return nil
}

// SetOffset implements window.Surface.
func (s *CellSurface) SetOffset(offset float64) error {
	s.offset = offset
	return nil
}

// SetArea moves or resizes the region the surface paints into.
func (s *CellSurface) SetArea(area core.ScreenRect) {
	s.area = area
}

// Area returns the region the surface paints into.
func (s *CellSurface) Area() core.ScreenRect {
	return s.area
}

// SetScroll sets the host scroll position.
func (s *CellSurface) SetScroll(offset float64) {
	s.scroll = offset
}

// ViewportExtent returns the visible extent of the area in scroll units.
func (s *CellSurface) ViewportExtent() float64 {
	return float64(s.area.Height()) * s.cellExtent
}

// Len returns the number of nodes on the surface.
func (s *CellSurface) Len() int {
	return len(s.nodes)
}

// Paint draws the nodes into the backend and flushes it.
func (s *CellSurface) Paint() {
	if s.area.IsEmpty() {
		return
	}

	textArea := s.area
	if s.scrollbar && textArea.Width() > 1 {
		textArea.Right--
	}

	s.backend.Fill(s.area, core.NewStyledCell(' ', s.theme.Overflow))

	rowsPerItem := max(1, int(math.Round(s.geometry.ItemExtent/s.cellExtent)))
	for k, n := range s.nodes {
		top := s.offset + float64(k)*s.geometry.ItemExtent - s.scroll
		row := textArea.Top + int(math.Floor(top/s.cellExtent))
		if row >= textArea.Bottom || row+rowsPerItem <= textArea.Top {
			continue
		}
		s.paintNode(textArea, row, rowsPerItem, n)
	}

	if s.scrollbar && s.area.Width() > 1 {
		s.paintScrollbar(s.area.Right - 1)
	}

	s.backend.Show()
}

// paintNode draws n over rows [row, row+rows) clipped to area. The text goes
// on the first row of the item.
func (s *CellSurface) paintNode(area core.ScreenRect, row, rows int, n window.Node) {
	style := n.Style
	if style.IsZero() {
		style = s.theme.Item
		if n.Index%2 == 1 {
			style = s.theme.ItemAlt
		}
	}

	for r := 0; r < rows; r++ {
		y := row + r
		if y < area.Top || y >= area.Bottom {
			continue
		}
		s.backend.Fill(core.ScreenRect{Top: y, Left: area.Left, Bottom: y + 1, Right: area.Right}, core.NewStyledCell(' ', style))
		if r != 0 {
			continue
		}

		x := area.Left + 1
		for _, c := range core.CellsFromString(n.Text, style) {
			if x >= area.Right {
				break
			}
			s.backend.SetCell(x, y, c)
			x++
		}
	}
}

// paintScrollbar draws a track with a thumb sized to the visible fraction.
func (s *CellSurface) paintScrollbar(x int) {
	height := s.area.Height()
	viewport := s.ViewportExtent()
	content := s.geometry.ContentExtent()

	thumbTop, thumbSize := 0, height
	if content > viewport {
		thumbSize = max(1, int(float64(height)*viewport/content))
		maxScroll := content - viewport
		thumbTop = int(math.Round(math.Min(s.scroll, maxScroll) / maxScroll * float64(height-thumbSize)))
		thumbTop = min(max(thumbTop, 0), height-thumbSize)
	}

	for i := 0; i < height; i++ {
		cell := core.NewStyledCell('│', s.theme.Track)
		if i >= thumbTop && i < thumbTop+thumbSize {
			cell = core.NewStyledCell('█', s.theme.Thumb)
		}
		s.backend.SetCell(x, s.area.Top+i, cell)
	}
}
