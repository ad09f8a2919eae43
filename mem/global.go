package mem

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/memkit/internal/assert"
	"github.com/joshuapare/memkit/internal/checked"
)

// GlobalAllocator allocates from the Go heap. It is stateless; the zero value
// is ready to use.
//
// Memory returned by GlobalAllocator is not scanned for pointers by the
// garbage collector, so it must only hold pointer-free data.
type GlobalAllocator struct{}

// Allocate returns size bytes rounded up to alignment, which is raised to at
// least PointerSize. A zero size yields the empty block.
func (GlobalAllocator) Allocate(size, alignment uintptr) Block {
	assert.Debug(IsPow2(alignment), "alignment %d is not a power of two", alignment)
	alignment = max(alignment, PointerSize)
	if size == 0 {
		return Block{}
	}

	n, ok := CheckedAlignForward(size, alignment)
	if !ok {
		panic(fmt.Errorf("%w: %d bytes", ErrOutOfMemory, size))
	}
	// Over-allocate so the block can be aligned inside the backing array.
	total, ok := checked.Add(n, alignment-PointerSize)
	if !ok || !checked.IntFits(total) {
		panic(fmt.Errorf("%w: %d bytes", ErrOutOfMemory, size))
	}

	buf := make([]byte, total)
	base := unsafe.Pointer(unsafe.SliceData(buf))
	shift := AlignForward(uintptr(base), alignment) - uintptr(base)
	return Block{Ptr: unsafe.Add(base, shift), Size: n}
}

// Deallocate drops the block; the garbage collector reclaims it once nothing
// refers to it.
func (GlobalAllocator) Deallocate(Block, uintptr) {}

var _ Allocator = GlobalAllocator{}
