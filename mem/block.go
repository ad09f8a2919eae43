package mem

import (
	"unsafe"

	"github.com/joshuapare/memkit/internal/assert"
	"github.com/joshuapare/memkit/internal/checked"
)

// Block is a contiguous run of bytes handed out by an allocator.
//
// A Block carries no ownership by itself: whoever returned it decides how it
// is given back. Two blocks are equal when both Ptr and Size match.
type Block struct {
	Ptr  unsafe.Pointer
	Size uintptr
}

// IsEmpty reports whether the block spans zero bytes. Allocators use the empty
// block to signal "not possible".
func (b Block) IsEmpty() bool {
	return b.Size == 0
}

// Addr returns the address of the first byte.
func (b Block) Addr() uintptr {
	return uintptr(b.Ptr)
}

// End returns the address one past the last byte.
func (b Block) End() uintptr {
	return uintptr(b.Ptr) + b.Size
}

// Contains reports whether addr lies in [Addr(), End()).
func (b Block) Contains(addr uintptr) bool {
	return b.Addr() <= addr && addr < b.End()
}

// Bytes views the block as a byte slice. The slice is only valid while the
// block is.
func (b Block) Bytes() []byte {
	if b.Ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(b.Ptr), b.Size)
}

// Slice returns the sub-block [off, off+n). It panics if the range does not
// lie within b.
func (b Block) Slice(off, n uintptr) Block {
	assert.Strict(checked.StrictAdd(off, n) <= b.Size, "block: slice of %d bytes at %d past size %d", n, off, b.Size)
	return Block{Ptr: unsafe.Add(b.Ptr, off), Size: n}
}
