package mem

import "github.com/joshuapare/memkit/internal/checked"

// TrackingStats is a snapshot of the traffic seen by a Tracking allocator.
type TrackingStats struct {
	Allocations    int     // Allocate calls that returned a non-empty block
	Failures       int     // Allocate calls that returned the empty block
	Deallocations  int     // Deallocate calls whose block was given back
	Retained       int     // Deallocate calls a Popper refused; the block stays in use
	GrowAttempts   int     // TryGrow calls
	Grows          int     // TryGrow calls that extended the block
	ShrinkAttempts int     // TryShrink calls
	Shrinks        int     // TryShrink calls that released the tail
	LiveBytes      uintptr // bytes handed out and not yet given back, retained blocks included
	PeakBytes      uintptr // high-water mark of LiveBytes
}

// Tracking wraps an allocator and counts what passes through it.
//
// Tracking always offers TryGrow and TryShrink; when the wrapped allocator
// lacks the capability they report "not possible", which is exactly what a
// consumer probing the wrapped allocator would have seen.
type Tracking[A Allocator] struct {
	inner A
	stats TrackingStats
}

// NewTracking wraps inner.
func NewTracking[A Allocator](inner A) *Tracking[A] {
	return &Tracking[A]{inner: inner}
}

// Inner returns the wrapped allocator.
func (t *Tracking[A]) Inner() A {
	return t.inner
}

// Stats returns a snapshot of the counters.
func (t *Tracking[A]) Stats() TrackingStats {
	return t.stats
}

// Reset zeroes the counters.
func (t *Tracking[A]) Reset() {
	t.stats = TrackingStats{}
}

// Allocate forwards to the wrapped allocator.
func (t *Tracking[A]) Allocate(size, alignment uintptr) Block {
	b := t.inner.Allocate(size, alignment)
	if b.IsEmpty() {
		if size > 0 {
			t.stats.Failures++
		}
		return b
	}
	t.stats.Allocations++
	t.gained(b.Size)
	return b
}

// Deallocate forwards to the wrapped allocator. When the wrapped allocator
// is a Popper, a block it refuses is counted as retained and stays live.
func (t *Tracking[A]) Deallocate(b Block, alignment uintptr) {
	if b.IsEmpty() {
		t.inner.Deallocate(b, alignment)
		return
	}
	if p, ok := any(t.inner).(Popper); ok {
		if !p.Pop(b, alignment) {
			t.stats.Retained++
			return
		}
	} else {
		t.inner.Deallocate(b, alignment)
	}
	t.stats.Deallocations++
	t.released(b.Size)
}

// CanShrink reports whether the wrapped allocator shrinks in place.
func (t *Tracking[A]) CanShrink() bool {
	return CanShrink(t.inner)
}

// TryGrow forwards to the wrapped allocator if it can grow.
func (t *Tracking[A]) TryGrow(b Block, alignment, additional uintptr) Block {
	t.stats.GrowAttempts++
	grown := TryGrow(t.inner, b, alignment, additional)
	if !grown.IsEmpty() {
		t.stats.Grows++
		t.gained(grown.Size - b.Size)
	}
	return grown
}

// TryShrink forwards to the wrapped allocator if it can shrink.
func (t *Tracking[A]) TryShrink(b Block, alignment, newSize uintptr) bool {
	t.stats.ShrinkAttempts++
	if !TryShrink(t.inner, b, alignment, newSize) {
		return false
	}
	t.stats.Shrinks++
	t.released(checked.StrictSub(b.Size, newSize))
	return true
}

func (t *Tracking[A]) gained(n uintptr) {
	t.stats.LiveBytes = checked.SaturatingAdd(t.stats.LiveBytes, n)
	t.stats.PeakBytes = max(t.stats.PeakBytes, t.stats.LiveBytes)
}

// released lowers LiveBytes, stopping at zero for blocks given back that
// were allocated before the counters were reset.
func (t *Tracking[A]) released(n uintptr) {
	live, ok := checked.Sub(t.stats.LiveBytes, n)
	if !ok {
		live = 0
	}
	t.stats.LiveBytes = live
}

var _ ResizableAllocator = (*Tracking[GlobalAllocator])(nil)
