package window

import (
	"errors"
	"fmt"

	"github.com/dshills/vwindow/internal/renderer/core"
)

// Node is one materialized item, ready to be placed on a Surface.
type Node struct {
	// Index is the item's position in the logical list.
	Index int

	// Text is the item content.
	Text string

	// Style is the visual style for the item.
	Style core.Style
}

// ItemFactory produces the node for a list index.
type ItemFactory func(index int) (Node, error)

// Surface is the host rendering container a Renderer draws into.
// Only the owning Renderer may call these methods.
type Surface interface {
	// Reset removes every node from the surface.
	Reset() error

	// Append adds a node after the last one.
	Append(n Node) error

	// SetOffset translates the whole node block by offset along the scroll axis.
	SetOffset(offset float64) error
}

// RenderedWindow is the set of nodes currently on the surface.
type RenderedWindow struct {
	Range  Range
	Nodes  []Node
	Offset float64
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithNodeReuse keeps nodes for indices present in both the old and the new
// range instead of asking the factory for them again.
func WithNodeReuse(enabled bool) RendererOption {
	return func(r *Renderer) {
		r.reuse = enabled
	}
}

// Renderer reconciles a Surface to a Range.
//
// Reconcile is all-or-nothing: after a failed call the surface shows the same
// window it showed before the call.
type Renderer struct {
	surface  Surface
	geometry Geometry
	reuse    bool

	current RenderedWindow
	valid   bool

	stats RenderStats
}

// RenderStats counts renderer work.
type RenderStats struct {
	Reconciles int // Calls that changed the surface
	Skipped    int // Calls with an unchanged range
	Failures   int // Calls that returned an error
	Created    int // Nodes produced by the factory
	Reused     int // Nodes carried over from the previous window
}

// NewRenderer creates a renderer that owns surface.
func NewRenderer(surface Surface, g Geometry, opts ...RendererOption) (*Renderer, error) {
	if surface == nil {
		return nil, errors.New("window: nil surface")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		surface:  surface,
		geometry: g,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Geometry returns the geometry the renderer positions nodes with.
func (r *Renderer) Geometry() Geometry {
	return r.geometry
}

// Window returns a copy of the window currently on the surface.
func (r *Renderer) Window() RenderedWindow {
	w := r.current
	w.Nodes = append([]Node(nil), r.current.Nodes...)
	return w
}

// Stats returns the renderer counters.
func (r *Renderer) Stats() RenderStats {
	return r.stats
}

// Invalidate forces the next Reconcile to rebuild even if the range is unchanged.
func (r *Renderer) Invalidate() {
	r.valid = false
}

// Reconcile makes the surface hold exactly one node per index in rng, in
// ascending order, translated by rng.Start * ItemExtent.
//
// All nodes are produced before the surface is touched, so a factory error
// leaves the surface as it was. If the surface fails midway the previous
// window is restored. Errors match ErrRenderFailure.
func (r *Renderer) Reconcile(rng Range, factory ItemFactory) error {
	if rng.Start < 0 || rng.End < rng.Start || rng.End > r.geometry.TotalCount {
		r.stats.Failures++
		return fmt.Errorf("%w: %s for %d items", ErrInvalidRange, rng, r.geometry.TotalCount)
	}
	if r.valid && rng == r.current.Range {
		r.stats.Skipped++
		return nil
	}
	if factory == nil {
		r.stats.Failures++
		return &RenderError{Index: rng.Start, Op: "factory", Err: errors.New("nil item factory")}
	}

	nodes, created, err := r.build(rng, factory)
	if err != nil {
		r.stats.Failures++
		return err
	}

	offset := r.geometry.OffsetOf(rng.Start)
	if err := r.apply(nodes, offset); err != nil {
		r.stats.Failures++
		if rbErr := r.apply(r.current.Nodes, r.current.Offset); rbErr != nil {
			// The surface is in an unknown state; rebuild on the next call.
			r.valid = false
			err.Err = errors.Join(err.Err, fmt.Errorf("restore: %w", rbErr))
		}
		return err
	}

	r.stats.Reconciles++
	r.stats.Created += created
	r.stats.Reused += len(nodes) - created

	r.current = RenderedWindow{Range: rng, Nodes: nodes, Offset: offset}
	r.valid = true
	return nil
}

// build produces the nodes for rng, reusing nodes from the current window
// when enabled.
func (r *Renderer) build(rng Range, factory ItemFactory) ([]Node, int, error) {
	nodes := make([]Node, 0, rng.Len())
	created := 0
	reuse := r.reuse && r.valid

	for i := rng.Start; i < rng.End; i++ {
		if reuse && r.current.Range.Contains(i) {
			nodes = append(nodes, r.current.Nodes[i-r.current.Range.Start])
			continue
		}

		n, err := callFactory(factory, i)
		if err != nil {
			return nil, 0, &RenderError{Index: i, Op: "factory", Err: err}
		}
		n.Index = i
		nodes = append(nodes, n)
		created++
	}
	return nodes, created, nil
}

// apply replaces the surface content with nodes at offset.
func (r *Renderer) apply(nodes []Node, offset float64) *RenderError {
	if err := r.surface.Reset(); err != nil {
		return &RenderError{Index: -1, Op: "reset", Err: err}
	}
	for _, n := range nodes {
		if err := r.surface.Append(n); err != nil {
			return &RenderError{Index: -1, Op: "append", Err: fmt.Errorf("item %d: %w", n.Index, err)}
		}
	}
	if err := r.surface.SetOffset(offset); err != nil {
		return &RenderError{Index: -1, Op: "offset", Err: err}
	}
	return nil
}

// callFactory invokes factory, converting a panic into an error.
func callFactory(factory ItemFactory, index int) (n Node, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("item factory panic: %v", p)
		}
	}()
	return factory(index)
}
