// Package mem defines the allocator capability model shared by memkit's
// containers, plus the stateless allocators and page primitives underneath it.
//
// # Blocks
//
// Every allocator speaks in Block values: a pointer and a byte count. A Block
// does not own anything; the allocator that returned it decides how it is
// released.
//
// # Capabilities
//
// Capabilities are plain interfaces, checked structurally:
//
//   - Allocator: Allocate(size, alignment) and Deallocate(block, alignment)
//   - GrowableAllocator: adds TryGrow, extending a block in place
//   - ShrinkableAllocator: adds TryShrink, giving back a block's tail
//   - ResizableAllocator: both of the above
//
// Generic containers constrain on Allocator and check for the richer tiers
// with TryGrow and TryShrink, falling back to allocate-and-relocate.
//
// # Implementations
//
// GlobalAllocator: Go heap, pointer-size minimum alignment
//
// PagesAllocator: reserve+commit fresh pages per allocation, release on free
//
// Tracking: wrapper that counts allocations, grows, shrinks and peak bytes
//
// The arena allocator lives in the arena subpackage.
//
// # Failure Model
//
// Environment failures (the OS refusing to map or commit memory) panic with
// an error wrapping ErrReserve, ErrCommit, ErrRelease or ErrOutOfMemory.
// There is no degraded mode for an allocator that cannot allocate. Bounded
// allocators report exhaustion with the empty block instead.
//
// Precondition violations (non power-of-two alignment, misaligned page
// blocks) are checked by debug assertions, enabled with the memdebug build
// tag.
//
// # Garbage Collection
//
// None of this memory is scanned by the Go garbage collector. Only store
// pointer-free data in it.
//
// # Thread Safety
//
// Allocator instances are not safe for concurrent use. GlobalAllocator and
// PagesAllocator hold no state and may be shared.
package mem
