package source

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/dshills/vwindow/internal/window"
)

// JSON serves items from an array inside a JSON document.
//
// Path is a gjson path selecting the array (e.g. "items" or "data.rows").
// Field, when set, is a gjson path evaluated on each element to produce the
// label (e.g. "name"); otherwise the element's string form is used.
type JSON struct {
	items []gjson.Result
	field string
}

// LoadJSON reads a JSON file and selects the array at path.
func LoadJSON(filename, path, field string) (*JSON, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading data file %s: %w", filename, err)
	}
	return ParseJSON(data, path, field)
}

// ParseJSON selects the array at path in data.
func ParseJSON(data []byte, path, field string) (*JSON, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON document", ErrBadSource)
	}

	root := gjson.ParseBytes(data)
	if path != "" {
		root = root.Get(path)
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: path %q does not select an array", ErrBadSource, path)
	}

	return &JSON{
		items: root.Array(),
		field: field,
	}, nil
}

// Count returns the number of items in the array.
func (j *JSON) Count() int {
	return len(j.items)
}

// Node produces the window.Node for index; its method value is a window.ItemFactory.
func (j *JSON) Node(index int) (window.Node, error) {
	if index < 0 || index >= len(j.items) {
		return window.Node{}, fmt.Errorf("%w: index %d of %d", ErrOutOfRange, index, len(j.items))
	}

	item := j.items[index]
	if j.field != "" {
		item = item.Get(j.field)
		if !item.Exists() {
			return window.Node{}, fmt.Errorf("%w: item %d has no %q", ErrBadSource, index, j.field)
		}
	}
	return window.Node{Index: index, Text: item.String()}, nil
}
