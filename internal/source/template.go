// Package source provides item factories for a window.List.
//
// A factory turns a list index into a window.Node. Three sources exist:
//   - Template formats a label from the index ("Item {n}").
//   - JSON reads labels from a JSON document with a gjson path.
//   - Script calls a Lua function item(index) in a sandboxed state.
package source

import (
	"strconv"
	"strings"

	"github.com/dshills/vwindow/internal/window"
)

// DefaultTemplate is the label used when no source is configured.
const DefaultTemplate = "Item {n}"

// Template formats labels by substituting placeholders:
//
//	{n} 1-based position
//	{i} 0-based index
type Template struct {
	pattern string
}

// NewTemplate creates a template source. An empty pattern uses DefaultTemplate.
func NewTemplate(pattern string) *Template {
	if pattern == "" {
		pattern = DefaultTemplate
	}
	return &Template{pattern: pattern}
}

// Label returns the label for index.
func (t *Template) Label(index int) string {
	r := strings.NewReplacer(
		"{n}", strconv.Itoa(index+1),
		"{i}", strconv.Itoa(index),
	)
	return r.Replace(t.pattern)
}

// Node produces the window.Node for index; its method value is a window.ItemFactory.
func (t *Template) Node(index int) (window.Node, error) {
	return window.Node{Index: index, Text: t.Label(index)}, nil
}
