package mem

// Allocator is the baseline allocation capability.
//
// Implementations:
//   - GlobalAllocator: Go heap, stateless
//   - PagesAllocator: fresh OS pages per allocation, stateless
//   - arena.Arena: bump allocator over one reserved region
//   - Tracking: counting wrapper around any of the above
//
// Capabilities are structural. A consumer asks for the smallest interface it
// needs and checks for GrowableAllocator or ShrinkableAllocator with a type
// assertion when an in-place fast path would help.
type Allocator interface {
	// Allocate returns a block of at least size bytes aligned to alignment,
	// which must be a power of two. Running out of memory is fatal, except
	// for bounded allocators such as the arena, which return the empty
	// block and let the caller decide.
	Allocate(size, alignment uintptr) Block

	// Deallocate gives back a block obtained from Allocate on the same
	// allocator. alignment must be the one used to allocate it.
	Deallocate(b Block, alignment uintptr)
}

// GrowableAllocator can extend a block in place.
type GrowableAllocator interface {
	Allocator

	// TryGrow extends b by at least additional bytes without moving it and
	// returns the extended block, or the empty block if that is not possible.
	// It never panics for lack of space.
	TryGrow(b Block, alignment, additional uintptr) Block
}

// ShrinkableAllocator can give back the tail of a block.
type ShrinkableAllocator interface {
	Allocator

	// TryShrink releases the bytes of b past newSize and reports whether it
	// did. The prefix [0, newSize) stays valid either way.
	//
	// newSize <= b.Size is a precondition.
	TryShrink(b Block, alignment, newSize uintptr) bool
}

// Popper is implemented by allocators that can only take back some blocks,
// such as the arena, which gives back only its most recent block. Pop
// reports whether b was returned; Deallocate is Pop with the result dropped.
type Popper interface {
	Allocator
	Pop(b Block, alignment uintptr) bool
}

// ResizableAllocator can both grow and shrink in place.
type ResizableAllocator interface {
	GrowableAllocator
	ShrinkableAllocator
}

// TryGrow calls a.TryGrow when a is a GrowableAllocator and reports the empty
// block otherwise.
func TryGrow(a Allocator, b Block, alignment, additional uintptr) Block {
	if g, ok := a.(GrowableAllocator); ok {
		return g.TryGrow(b, alignment, additional)
	}
	return Block{}
}

// TryShrink calls a.TryShrink when a is a ShrinkableAllocator and reports
// false otherwise.
func TryShrink(a Allocator, b Block, alignment, newSize uintptr) bool {
	if s, ok := a.(ShrinkableAllocator); ok {
		return s.TryShrink(b, alignment, newSize)
	}
	return false
}

// CanShrink reports whether a shrinks blocks in place. Wrappers report the
// capability of the allocator they forward to through a CanShrink method.
func CanShrink(a Allocator) bool {
	if w, ok := a.(interface{ CanShrink() bool }); ok {
		return w.CanShrink()
	}
	_, ok := a.(ShrinkableAllocator)
	return ok
}
