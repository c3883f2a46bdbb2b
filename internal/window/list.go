package window

import "errors"

// List drives a Renderer from viewport snapshots.
//
// Every OnScroll computes a range and reconciles it before returning; there is
// no queueing, so the last snapshot delivered always wins.
type List struct {
	geometry Geometry
	renderer *Renderer
	factory  ItemFactory

	viewport ViewportState
	current  Range
}

// NewList creates a list that renders into surface with factory.
// The geometry is validated once here and never re-read.
func NewList(g Geometry, surface Surface, factory ItemFactory, opts ...RendererOption) (*List, error) {
	if factory == nil {
		return nil, errors.New("window: nil item factory")
	}
	r, err := NewRenderer(surface, g, opts...)
	if err != nil {
		return nil, err
	}
	return &List{
		geometry: g,
		renderer: r,
		factory:  factory,
	}, nil
}

// Geometry returns the list geometry.
func (l *List) Geometry() Geometry {
	return l.geometry
}

// Viewport returns the last viewport snapshot received.
func (l *List) Viewport() ViewportState {
	return l.viewport
}

// Range returns the range currently on the surface.
func (l *List) Range() Range {
	return l.current
}

// Renderer returns the renderer owned by the list.
func (l *List) Renderer() *Renderer {
	return l.renderer
}

// OnScroll handles a scroll notification. It returns the range on the
// surface after the call, which is the previous range if reconciling failed.
func (l *List) OnScroll(vs ViewportState) (Range, error) {
	l.viewport = vs

	rng, err := l.geometry.Range(vs)
	if err != nil {
		return l.current, err
	}
	if err := l.renderer.Reconcile(rng, l.factory); err != nil {
		return l.current, err
	}

	l.current = rng
	return rng, nil
}

// SetFactory replaces the item factory. The surface is not touched until the
// next Refresh or OnScroll.
func (l *List) SetFactory(factory ItemFactory) error {
	if factory == nil {
		return errors.New("window: nil item factory")
	}
	l.factory = factory
	l.renderer.Invalidate()
	return nil
}

// Refresh rebuilds the window for the last viewport snapshot.
func (l *List) Refresh() (Range, error) {
	l.renderer.Invalidate()
	return l.OnScroll(l.viewport)
}
