package window

import (
	"fmt"
	"math"
)

// Geometry describes a list of equally sized items.
// It is fixed at startup and never mutated by this package.
type Geometry struct {
	// ItemExtent is the size of one item along the scroll axis. Must be > 0.
	ItemExtent float64

	// BufferCount is how many extra items are rendered beyond each visible edge.
	BufferCount int

	// TotalCount is the number of items in the logical list.
	TotalCount int
}

// Validate returns a *GeometryError wrapping ErrInvalidGeometry if the
// geometry cannot be used to compute ranges.
func (g Geometry) Validate() error {
	if !(g.ItemExtent > 0) || math.IsInf(g.ItemExtent, 0) {
		return &GeometryError{Field: "ItemExtent", Value: g.ItemExtent}
	}
	if g.TotalCount < 0 {
		return &GeometryError{Field: "TotalCount", Value: g.TotalCount}
	}
	if g.BufferCount < 0 {
		return &GeometryError{Field: "BufferCount", Value: g.BufferCount}
	}
	return nil
}

// ContentExtent returns the extent of the whole unvirtualized list.
func (g Geometry) ContentExtent() float64 {
	return float64(g.TotalCount) * g.ItemExtent
}

// MaxScroll returns the largest scroll offset that still fills the viewport.
func (g Geometry) MaxScroll(viewportExtent float64) float64 {
	return math.Max(g.ContentExtent()-viewportExtent, 0)
}

// ClampScroll limits offset to [0, MaxScroll(viewportExtent)].
func (g Geometry) ClampScroll(offset, viewportExtent float64) float64 {
	if offset < 0 || math.IsNaN(offset) {
		return 0
	}
	return math.Min(offset, g.MaxScroll(viewportExtent))
}

// OffsetOf returns the position of item index in the unvirtualized list.
func (g Geometry) OffsetOf(index int) float64 {
	return float64(index) * g.ItemExtent
}

// IndexAt returns the index of the item covering offset, clamped to the list.
// Returns 0 for an empty list.
func (g Geometry) IndexAt(offset float64) int {
	if g.TotalCount == 0 || !(g.ItemExtent > 0) || offset <= 0 || math.IsNaN(offset) {
		return 0
	}
	idx := int(math.Floor(offset / g.ItemExtent))
	return min(idx, g.TotalCount-1)
}

// ScrollToItem returns the scroll offset needed to bring index fully into view.
// If the item is already visible, or index is out of range, current is returned.
func (g Geometry) ScrollToItem(index int, current, viewportExtent float64) float64 {
	if index < 0 || index >= g.TotalCount {
		return current
	}

	top := g.OffsetOf(index)
	bottom := top + g.ItemExtent

	if top < current {
		return top
	}
	if bottom > current+viewportExtent {
		return g.ClampScroll(bottom-viewportExtent, viewportExtent)
	}
	return current
}

// Range computes the visible range for a viewport snapshot.
func (g Geometry) Range(vs ViewportState) (Range, error) {
	return ComputeRange(vs.ScrollOffset, vs.ViewportExtent, g)
}

// ViewportState is a snapshot of the host scroll container.
type ViewportState struct {
	// ScrollOffset is the distance scrolled from the top. Negative values
	// (overscroll) are treated as 0.
	ScrollOffset float64

	// ViewportExtent is the visible size along the scroll axis.
	ViewportExtent float64
}

// Range is a half-open index range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty returns true if the range holds no index.
func (r Range) Empty() bool {
	return r.Len() == 0
}

// Contains returns true if index is within the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.End
}

// Covers returns true if other is a subset of r. An empty other is always covered.
func (r Range) Covers(other Range) bool {
	if other.Empty() {
		return true
	}
	return other.Start >= r.Start && other.End <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// ComputeRange returns the index range to materialize for the given scroll
// position and viewport size.
//
// The range starts BufferCount items above the first visible item and spans
// the visible item count plus BufferCount on both sides, clamped to the list.
// The result always satisfies 0 <= Start <= End <= TotalCount.
func ComputeRange(scrollOffset, viewportExtent float64, g Geometry) (Range, error) {
	if err := g.Validate(); err != nil {
		return Range{}, err
	}
	if g.TotalCount == 0 {
		return Range{}, nil
	}

	// Overscroll can report small negative offsets.
	if scrollOffset < 0 || math.IsNaN(scrollOffset) {
		scrollOffset = 0
	}

	buffer := g.BufferCount

	// A stale offset past the end of the list saturates at TotalCount.
	firstVisible := floorIndex(scrollOffset/g.ItemExtent, g.TotalCount)
	start := max(firstVisible-buffer, 0)

	visible := 0
	if viewportExtent > 0 {
		visible = floorIndex(math.Ceil(viewportExtent/g.ItemExtent), g.TotalCount)
	}

	// start + 2*buffer + visible, saturating at TotalCount without overflow.
	end := g.TotalCount
	if rem := g.TotalCount - start; visible <= rem && buffer <= (rem-visible)/2 {
		end = start + buffer*2 + visible
	}

	return Range{Start: start, End: end}, nil
}

// floorIndex converts a non-negative float to an int, saturating at limit so
// huge offsets cannot overflow.
func floorIndex(v float64, limit int) int {
	if v >= float64(limit) {
		return limit
	}
	return int(math.Floor(v))
}
