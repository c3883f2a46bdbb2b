// Package window implements list virtualization for fixed-extent items.
//
// A list of any length is shown through a viewport by materializing only the
// items near the visible region. The package is split in three parts:
//
//   - ComputeRange turns a scroll position and the list Geometry into the
//     half-open index Range that should exist on screen, including a buffer
//     of extra items on each side.
//   - Renderer owns a Surface and reconciles it to a Range: it places exactly
//     one Node per index, in ascending order, and translates the block so the
//     first node sits where it would in the unvirtualized list.
//   - List is the scroll bridge that feeds viewport snapshots through both.
//
// Everything here is synchronous and single-threaded. A Renderer must only be
// used from one goroutine; no other component writes to its Surface.
//
// Basic usage:
//
//	g := window.Geometry{ItemExtent: 50, BufferCount: 20, TotalCount: 100000}
//	list, err := window.NewList(g, surface, factory)
//	if err != nil {
//	    return err
//	}
//	rng, err := list.OnScroll(window.ViewportState{ScrollOffset: 1000, ViewportExtent: 400})
package window
