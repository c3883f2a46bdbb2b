package window

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// memSurface records what a Renderer writes. failAppendAt makes the n-th
// Append (1-based, counted since the last Reset) fail.
type memSurface struct {
	nodes        []Node
	offset       float64
	resets       int
	failAppendAt int
	failOffset   bool
	failReset    bool
	appends      int
}

func (s *memSurface) Reset() error {
	if s.failReset {
		return errors.New("reset refused")
	}
	s.resets++
	s.appends = 0
	s.nodes = nil
	return nil
}

func (s *memSurface) Append(n Node) error {
	s.appends++
	if s.failAppendAt > 0 && s.appends == s.failAppendAt {
		return errors.New("append refused")
	}
	s.nodes = append(s.nodes, n)
	return nil
}

func (s *memSurface) SetOffset(offset float64) error {
	if s.failOffset {
		return errors.New("offset refused")
	}
	s.offset = offset
	return nil
}

func (s *memSurface) indices() []int {
	out := make([]int, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n.Index)
	}
	return out
}

func labelFactory(index int) (Node, error) {
	return Node{Text: fmt.Sprintf("Item %d", index+1)}, nil
}

func seq(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

func newTestRenderer(t *testing.T, s Surface, opts ...RendererOption) *Renderer {
	t.Helper()
	r, err := NewRenderer(s, Geometry{ItemExtent: 50, BufferCount: 2, TotalCount: 100}, opts...)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	return r
}

func TestNewRendererRejectsInvalidGeometry(t *testing.T) {
	_, err := NewRenderer(&memSurface{}, Geometry{ItemExtent: 0})
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}

	_, err = NewRenderer(nil, Geometry{ItemExtent: 1})
	if err == nil {
		t.Error("expected error for nil surface")
	}
}

func TestReconcilePlacesNodesInOrder(t *testing.T) {
	s := &memSurface{}
	r := newTestRenderer(t, s)

	if err := r.Reconcile(Range{10, 15}, labelFactory); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if got := s.indices(); !reflect.DeepEqual(got, seq(10, 15)) {
		t.Errorf("expected indices %v, got %v", seq(10, 15), got)
	}
	if s.offset != 500 {
		t.Errorf("expected offset 500, got %v", s.offset)
	}
	if s.nodes[0].Text != "Item 11" {
		t.Errorf("expected first label %q, got %q", "Item 11", s.nodes[0].Text)
	}

	w := r.Window()
	if w.Range != (Range{10, 15}) || w.Offset != 500 || len(w.Nodes) != 5 {
		t.Errorf("unexpected window %+v", w)
	}
}

func TestReconcileFullReplace(t *testing.T) {
	s := &memSurface{}
	r := newTestRenderer(t, s)

	calls := 0
	factory := func(i int) (Node, error) {
		calls++
		return labelFactory(i)
	}

	_ = r.Reconcile(Range{0, 5}, factory)
	_ = r.Reconcile(Range{2, 7}, factory)

	if calls != 10 {
		t.Errorf("expected 10 factory calls without reuse, got %d", calls)
	}
	if got := s.indices(); !reflect.DeepEqual(got, seq(2, 7)) {
		t.Errorf("expected indices %v, got %v", seq(2, 7), got)
	}
	if s.resets != 2 {
		t.Errorf("expected 2 resets, got %d", s.resets)
	}
}

func TestReconcileNodeReuse(t *testing.T) {
	s := &memSurface{}
	r := newTestRenderer(t, s, WithNodeReuse(true))

	calls := 0
	factory := func(i int) (Node, error) {
		calls++
		return labelFactory(i)
	}

	_ = r.Reconcile(Range{0, 5}, factory)
	_ = r.Reconcile(Range{2, 7}, factory)

	if calls != 7 {
		t.Errorf("expected 7 factory calls with reuse, got %d", calls)
	}
	if got := s.indices(); !reflect.DeepEqual(got, seq(2, 7)) {
		t.Errorf("expected indices %v, got %v", seq(2, 7), got)
	}

	stats := r.Stats()
	if stats.Reused != 3 || stats.Created != 7 {
		t.Errorf("expected 3 reused and 7 created, got %+v", stats)
	}
}

func TestReconcileSameRangeIsNoop(t *testing.T) {
	s := &memSurface{}
	r := newTestRenderer(t, s)

	_ = r.Reconcile(Range{0, 5}, labelFactory)
	_ = r.Reconcile(Range{0, 5}, labelFactory)

	if s.resets != 1 {
		t.Errorf("expected 1 reset, got %d", s.resets)
	}
	if r.Stats().Skipped != 1 {
		t.Errorf("expected 1 skipped reconcile, got %d", r.Stats().Skipped)
	}

	r.Invalidate()
	_ = r.Reconcile(Range{0, 5}, labelFactory)
	if s.resets != 2 {
		t.Errorf("expected rebuild after Invalidate, got %d resets", s.resets)
	}
}

func TestReconcileFactoryFailureIsAtomic(t *testing.T) {
	s := &memSurface{}
	r := newTestRenderer(t, s)

	if err := r.Reconcile(Range{0, 5}, labelFactory); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	before := append([]Node(nil), s.nodes...)
	beforeOffset := s.offset

	boom := errors.New("boom")
	failing := func(i int) (Node, error) {
		if i == 8 {
			return Node{}, boom
		}
		return labelFactory(i)
	}

	err := r.Reconcile(Range{6, 11}, failing)
	if !errors.Is(err, ErrRenderFailure) {
		t.Fatalf("expected ErrRenderFailure, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped factory error, got %v", err)
	}
	var rerr *RenderError
	if !errors.As(err, &rerr) || rerr.Index != 8 {
		t.Errorf("expected failing index 8, got %v", err)
	}

	if !reflect.DeepEqual(s.nodes, before) || s.offset != beforeOffset {
		t.Errorf("surface changed after failed reconcile: %v @ %v", s.indices(), s.offset)
	}
	if s.resets != 1 {
		t.Errorf("surface should not be reset on factory failure, got %d resets", s.resets)
	}
	if r.Window().Range != (Range{0, 5}) {
		t.Errorf("expected window to stay [0, 5), got %s", r.Window().Range)
	}
}

func TestReconcileFactoryPanic(t *testing.T) {
	s := &memSurface{}
	r := newTestRenderer(t, s)

	err := r.Reconcile(Range{0, 3}, func(i int) (Node, error) {
		panic("bad item")
	})
	if !errors.Is(err, ErrRenderFailure) {
		t.Fatalf("expected ErrRenderFailure, got %v", err)
	}
	if len(s.nodes) != 0 {
		t.Errorf("expected empty surface, got %v", s.indices())
	}
}

func TestReconcileSurfaceFailureRestoresWindow(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *memSurface)
	}{
		{"append", func(s *memSurface) { s.failAppendAt = 3 }},
		{"offset", func(s *memSurface) { s.failOffset = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &memSurface{}
			r := newTestRenderer(t, s)

			if err := r.Reconcile(Range{0, 2}, labelFactory); err != nil {
				t.Fatalf("Reconcile failed: %v", err)
			}

			tt.setup(s)
			err := r.Reconcile(Range{20, 25}, labelFactory)
			if !errors.Is(err, ErrRenderFailure) {
				t.Fatalf("expected ErrRenderFailure, got %v", err)
			}

			s.failOffset = false
			if got := s.indices(); !reflect.DeepEqual(got, seq(0, 2)) {
				t.Errorf("expected restored indices [0 1], got %v", got)
			}
			if s.offset != 0 {
				t.Errorf("expected restored offset 0, got %v", s.offset)
			}
		})
	}
}

func TestReconcileFailedRestoreForcesRebuild(t *testing.T) {
	s := &memSurface{}
	r := newTestRenderer(t, s)

	_ = r.Reconcile(Range{0, 2}, labelFactory)

	s.failOffset = true
	if err := r.Reconcile(Range{5, 7}, labelFactory); err == nil {
		t.Fatal("expected error")
	}

	s.failOffset = false
	resets := s.resets
	if err := r.Reconcile(Range{0, 2}, labelFactory); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if s.resets == resets {
		t.Error("expected a rebuild after a failed restore")
	}
}

func TestReconcileRejectsBadRange(t *testing.T) {
	r := newTestRenderer(t, &memSurface{})

	for _, rng := range []Range{{-1, 2}, {5, 3}, {90, 101}} {
		if err := r.Reconcile(rng, labelFactory); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("%s: expected ErrInvalidRange, got %v", rng, err)
		}
	}
}

func TestReconcileNilFactory(t *testing.T) {
	r := newTestRenderer(t, &memSurface{})
	if err := r.Reconcile(Range{0, 1}, nil); !errors.Is(err, ErrRenderFailure) {
		t.Errorf("expected ErrRenderFailure, got %v", err)
	}
}

func TestWindowReturnsCopy(t *testing.T) {
	r := newTestRenderer(t, &memSurface{})
	_ = r.Reconcile(Range{0, 3}, labelFactory)

	w := r.Window()
	w.Nodes[0].Text = "changed"

	if r.Window().Nodes[0].Text == "changed" {
		t.Error("Window should return a copy of the nodes")
	}
}
