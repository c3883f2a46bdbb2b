package window

import (
	"errors"
	"fmt"
)

// Errors returned by window operations.
var (
	// ErrInvalidGeometry indicates a geometry that ranges cannot be computed from.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrRenderFailure indicates a reconciliation that could not be applied.
	// The surface keeps the window it had before the call.
	ErrRenderFailure = errors.New("render failure")

	// ErrInvalidRange indicates a range outside [0, TotalCount] or with Start > End.
	ErrInvalidRange = errors.New("invalid range")
)

// GeometryError describes which geometry field was rejected.
type GeometryError struct {
	Field string // Field name (e.g., "ItemExtent")
	Value any    // Offending value
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s = %v", e.Field, e.Value)
}

// Unwrap lets errors.Is match ErrInvalidGeometry.
func (e *GeometryError) Unwrap() error {
	return ErrInvalidGeometry
}

// RenderError reports a failed reconciliation.
type RenderError struct {
	// Index is the item whose node could not be produced.
	// It is -1 when the surface itself failed.
	Index int
	// Op is the failing step ("factory", "reset", "append", "offset").
	Op string
	// Err is the underlying error.
	Err error
}

func (e *RenderError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("render failure: %s item %d: %v", e.Op, e.Index, e.Err)
	}
	return fmt.Sprintf("render failure: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// Is reports ErrRenderFailure so callers can match any render error.
func (e *RenderError) Is(target error) bool {
	return target == ErrRenderFailure
}
