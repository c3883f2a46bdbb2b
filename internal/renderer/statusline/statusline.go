// Package statusline renders the one-row status bar under the list.
package statusline

import (
	"fmt"

	"github.com/dshills/vwindow/internal/renderer/backend"
	"github.com/dshills/vwindow/internal/renderer/core"
	"github.com/dshills/vwindow/internal/window"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// StatusLine shows the item source, the rendered range and the scroll
// position, or a transient message in their place.
type StatusLine struct {
	source string
	rng    window.Range
	total  int
	first  int // first visible item
	scroll float64
	max    float64

	message     string
	messageType MessageType

	barStyle     core.Style
	sourceStyle  core.Style
	errorStyle   core.Style
	warningStyle core.Style

	width int
}

// New creates a status line for a list with the given source label.
func New(source string) *StatusLine {
	return &StatusLine{
		source:       source,
		barStyle:     core.DefaultStyle().WithBackground(core.ColorGray).WithForeground(core.ColorWhite),
		sourceStyle:  core.DefaultStyle().WithBackground(core.ColorFromIndex(4)).WithForeground(core.ColorWhite).Bold(),
		errorStyle:   core.DefaultStyle().WithForeground(core.ColorFromIndex(1)).Bold(),
		warningStyle: core.DefaultStyle().WithForeground(core.ColorFromIndex(3)),
	}
}

// SetSource sets the source label.
func (s *StatusLine) SetSource(source string) {
	s.source = source
}

// SetWindow records the rendered range and scroll position.
func (s *StatusLine) SetWindow(rng window.Range, g window.Geometry, scroll, viewport float64) {
	s.rng = rng
	s.total = g.TotalCount
	s.first = g.IndexAt(scroll)
	s.scroll = scroll
	s.max = g.MaxScroll(viewport)
}

// SetMessage shows msg until ClearMessage.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message and its type.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Resize updates the status line width.
func (s *StatusLine) Resize(width int) {
	s.width = width
}

// Render draws the status line to the backend at the given row.
func (s *StatusLine) Render(b backend.Backend, row int) {
	if s.width <= 0 {
		return
	}
	if s.message != "" {
		s.renderMessage(b, row)
		return
	}
	s.renderStatusBar(b, row)
}

func (s *StatusLine) renderStatusBar(b backend.Backend, row int) {
	b.Fill(core.ScreenRect{Top: row, Left: 0, Bottom: row + 1, Right: s.width}, core.NewStyledCell(' ', s.barStyle))

	col := s.put(b, 0, row, " "+s.source+" ", s.sourceStyle)
	col = s.put(b, col, row, " "+s.formatWindow(), s.barStyle)

	pos := s.formatPosition()
	if start := s.width - len(pos) - 1; start > col {
		s.put(b, start, row, pos, s.barStyle)
	}
}

func (s *StatusLine) renderMessage(b backend.Backend, row int) {
	style := core.DefaultStyle()
	switch s.messageType {
	case MessageError:
		style = s.errorStyle
	case MessageWarning:
		style = s.warningStyle
	}

	b.Fill(core.ScreenRect{Top: row, Left: 0, Bottom: row + 1, Right: s.width}, core.NewStyledCell(' ', style))
	s.put(b, 0, row, s.message, style)
}

// put draws text from col and returns the column after it.
func (s *StatusLine) put(b backend.Backend, col, row int, text string, style core.Style) int {
	for _, c := range core.CellsFromString(text, style) {
		if col >= s.width {
			break
		}
		b.SetCell(col, row, c)
		col++
	}
	return col
}

// formatWindow formats "item 41 of 100000  window [21, 81)".
func (s *StatusLine) formatWindow() string {
	if s.total == 0 {
		return "empty list"
	}
	return fmt.Sprintf("item %d of %d  window %s", min(s.first+1, s.total), s.total, s.rng)
}

// formatPosition formats "Top", "Bot", "All" or a percentage.
func (s *StatusLine) formatPosition() string {
	switch {
	case s.max <= 0:
		return "All"
	case s.scroll <= 0:
		return "Top"
	case s.scroll >= s.max:
		return "Bot"
	default:
		return fmt.Sprintf("%d%%", int(s.scroll/s.max*100))
	}
}
