package mem

import (
	"unsafe"

	"github.com/joshuapare/memkit/internal/assert"
	"github.com/joshuapare/memkit/internal/checked"
)

// PointerSize is the size of a machine pointer, the minimum alignment
// GlobalAllocator hands out.
const PointerSize = unsafe.Sizeof(uintptr(0))

// IsPow2 reports whether x is a power of two.
func IsPow2(x uintptr) bool {
	return x != 0 && x&(x-1) == 0
}

// AlignBackward rounds x down to a multiple of alignment.
//
// alignment must be a power of two.
func AlignBackward(x, alignment uintptr) uintptr {
	assert.Debug(IsPow2(alignment), "alignment %d is not a power of two", alignment)
	return x &^ (alignment - 1)
}

// AlignForward rounds x up to a multiple of alignment.
//
// alignment must be a power of two and x+alignment-1 must not overflow.
func AlignForward(x, alignment uintptr) uintptr {
	assert.Debug(IsPow2(alignment), "alignment %d is not a power of two", alignment)
	assert.Debug(x <= checked.Max[uintptr]()-(alignment-1), "align forward of %d overflows", x)
	return AlignBackward(x+(alignment-1), alignment)
}

// CheckedAlignForward is AlignForward that reports overflow instead of
// assuming it away.
func CheckedAlignForward(x, alignment uintptr) (uintptr, bool) {
	assert.Debug(IsPow2(alignment), "alignment %d is not a power of two", alignment)
	padded, ok := checked.Add(x, alignment-1)
	if !ok {
		return 0, false
	}
	return padded &^ (alignment - 1), true
}
