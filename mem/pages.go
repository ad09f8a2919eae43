package mem

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/assert"
	"github.com/joshuapare/memkit/internal/osmem"
)

// PageSize returns the OS page size in bytes, queried once per process.
func PageSize() int {
	return osmem.PageSize()
}

// Reserve reserves enough inaccessible pages to fit size bytes and returns
// them as a block whose Size is a page multiple. It panics with ErrReserve if
// the OS refuses.
//
// size must be greater than zero.
func Reserve(size uintptr) Block {
	assert.Debug(size > 0, "reserve of zero bytes")
	p, n, err := osmem.Reserve(size)
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrReserve, err))
	}
	return Block{Ptr: p, Size: n}
}

// TryCommit makes a reserved block readable and writable.
func TryCommit(b Block) bool {
	assertPages(b)
	return osmem.Commit(b.Ptr, b.Size) == nil
}

// TryDecommit lets the OS discard the block's contents and removes access.
func TryDecommit(b Block) bool {
	assertPages(b)
	return osmem.Decommit(b.Ptr, b.Size) == nil
}

// TryRelease returns a reserved block to the OS.
func TryRelease(b Block) bool {
	assertPages(b)
	return osmem.Release(b.Ptr, b.Size) == nil
}

func assertPages(b Block) {
	assert.Debug(b.Size%uintptr(PageSize()) == 0, "block size %d is not a page multiple", b.Size)
}

// PagesAllocator maps fresh pages for every allocation and unmaps them on
// deallocation. It is stateless; the zero value is ready to use.
type PagesAllocator struct{}

// Allocate reserves and commits whole pages for size bytes. A zero size
// yields the empty block.
//
// alignment must not exceed PageSize.
func (PagesAllocator) Allocate(size, alignment uintptr) Block {
	assert.Debug(alignment <= uintptr(PageSize()), "alignment %d exceeds page size", alignment)
	if size == 0 {
		return Block{}
	}
	b := Reserve(size)
	if !TryCommit(b) {
		_ = TryRelease(b)
		panic(fmt.Errorf("%w: %d bytes", ErrCommit, b.Size))
	}
	return b
}

// Deallocate unmaps a block returned by Allocate.
func (PagesAllocator) Deallocate(b Block, _ uintptr) {
	if b.IsEmpty() {
		return
	}
	if !TryRelease(b) {
		panic(fmt.Errorf("%w: %d bytes at %#x", ErrRelease, b.Size, b.Addr()))
	}
}

var _ Allocator = PagesAllocator{}
