package arena

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/memkit/internal/assert"
	"github.com/joshuapare/memkit/internal/checked"
	"github.com/joshuapare/memkit/mem"
)

// Arena is a bump allocator over a single reserved and committed region.
//
// Allocation is O(1): the cursor is aligned, advanced and returned. Only the
// most recently issued block can be given back (Pop); anything else stays
// allocated until Clear or Release.
//
// The zero value is an arena of capacity zero: every Push fails.
type Arena struct {
	region mem.Block

	// end is the cursor, as an offset from region.Ptr.
	// Invariant: 0 <= end <= region.Size.
	end uintptr

	// peak is the high-water mark of end since creation.
	peak uintptr

	pushes   int
	pops     int
	failures int
}

// New creates an arena able to hold capacity bytes. The reservation is
// rounded up to whole pages, so Cap may report more than requested.
//
// It panics if capacity is zero or if the OS cannot provide the memory.
func New(capacity uintptr) *Arena {
	assert.Strict(capacity > 0, "arena: capacity must be positive")

	region := mem.Reserve(capacity)
	if !mem.TryCommit(region) {
		_ = mem.TryRelease(region)
		panic(fmt.Errorf("arena: %w: %d bytes", mem.ErrCommit, region.Size))
	}
	return &Arena{region: region}
}

// Cap returns the size of the region in bytes.
func (a *Arena) Cap() uintptr {
	return a.region.Size
}

// Len returns the number of bytes between the start of the region and the
// cursor, alignment padding included.
func (a *Arena) Len() uintptr {
	return a.end
}

// IsEmpty reports whether the cursor is at the start of the region.
func (a *Arena) IsEmpty() bool {
	return a.end == 0
}

// Region returns the whole reserved block.
func (a *Arena) Region() mem.Block {
	return a.region
}

// cursor returns the absolute address of the next free byte.
func (a *Arena) cursor() uintptr {
	return a.region.Addr() + a.end
}

// Push carves size bytes aligned to alignment off the top of the arena.
// Both the start and the end of the block are aligned, so Size may exceed
// the request.
//
// If the block does not fit, Push returns the empty block and the arena is
// unchanged.
func (a *Arena) Push(size, alignment uintptr) mem.Block {
	assert.Debug(mem.IsPow2(alignment), "alignment %d is not a power of two", alignment)

	if a.region.Ptr == nil {
		a.failures++
		return mem.Block{}
	}

	base := a.region.Addr()
	begin, ok := mem.CheckedAlignForward(a.cursor(), alignment)
	var stop uintptr
	if ok {
		stop, ok = checked.Add(begin, size)
	}
	if ok {
		stop, ok = mem.CheckedAlignForward(stop, alignment)
	}
	if !ok || stop > a.region.End() {
		a.failures++
		return mem.Block{}
	}

	a.end = stop - base
	a.peak = max(a.peak, a.end)
	a.pushes++
	return mem.Block{Ptr: unsafe.Add(a.region.Ptr, begin-base), Size: stop - begin}
}

// isTop reports whether b ends at the cursor. Both sides are aligned forward
// so a block whose tail was trimmed by TryShrink still counts.
func (a *Arena) isTop(b mem.Block, alignment uintptr) bool {
	if b.Ptr == nil || a.region.Ptr == nil {
		return false
	}
	return mem.AlignForward(b.End(), alignment) == mem.AlignForward(a.cursor(), alignment)
}

// Pop gives back b if it is the most recently pushed live block, rewinding
// the cursor to b's start. Otherwise Pop returns false and the arena is
// unchanged.
//
// alignment must be the one b was pushed with.
func (a *Arena) Pop(b mem.Block, alignment uintptr) bool {
	assert.Debug(mem.IsPow2(alignment), "alignment %d is not a power of two", alignment)
	if !a.isTop(b, alignment) {
		return false
	}
	assert.Debug(a.region.Contains(b.Addr()) || b.Addr() == a.region.End(),
		"block %#x is outside the arena", b.Addr())

	a.end = b.Addr() - a.region.Addr()
	a.pops++
	return true
}

// Clear rewinds the cursor to the start of the region, invalidating every
// block the arena has issued. Nothing stored in those blocks is cleaned up.
func (a *Arena) Clear() {
	a.end = 0
}

// Release decommits and unmaps the region. The arena is left with capacity
// zero; every block it issued becomes invalid.
func (a *Arena) Release() {
	if a.region.Ptr == nil {
		return
	}
	_ = mem.TryDecommit(a.region)
	_ = mem.TryRelease(a.region)
	*a = Arena{}
}

// Allocate implements mem.Allocator with Push. Exhaustion yields the empty
// block.
func (a *Arena) Allocate(size, alignment uintptr) mem.Block {
	return a.Push(size, alignment)
}

// Deallocate implements mem.Allocator with Pop. A block that is not on top
// is leaked until Clear or Release.
func (a *Arena) Deallocate(b mem.Block, alignment uintptr) {
	_ = a.Pop(b, alignment)
}

// TryGrow extends b in place when b is the top block and the extension fits.
// It returns the combined block, or the empty block with the arena unchanged.
func (a *Arena) TryGrow(b mem.Block, alignment, additional uintptr) mem.Block {
	if !a.isTop(b, alignment) {
		return mem.Block{}
	}
	ext := a.Push(additional, alignment)
	if ext.Ptr == nil {
		return mem.Block{}
	}
	return mem.Block{Ptr: b.Ptr, Size: ext.End() - b.Addr()}
}

// TryShrink gives back the bytes of b past newSize when b is the top block.
//
// newSize <= b.Size is a precondition.
func (a *Arena) TryShrink(b mem.Block, alignment, newSize uintptr) bool {
	tail, ok := checked.Sub(b.Size, newSize)
	assert.Debug(ok, "shrink to %d past block size %d", newSize, b.Size)
	if !ok {
		return false
	}
	return a.Pop(b.Slice(newSize, tail), alignment)
}

// Compile-time interface check
var (
	_ mem.ResizableAllocator = (*Arena)(nil)
	_ mem.Popper             = (*Arena)(nil)
)
