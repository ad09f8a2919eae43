// Package arena provides a bump-pointer allocator with LIFO deallocation.
//
// # Overview
//
// An Arena reserves one region of virtual memory up front and hands out
// blocks by advancing a cursor. Giving memory back is only possible for the
// most recently issued block, which makes both directions O(1):
//
//	a := arena.New(64 * bytesize.KiB.Uintptr())
//	defer a.Release()
//
//	b1 := a.Push(16, 4)
//	b2 := a.Push(16, 4)
//	a.Pop(b1, 4) // false: b2 is on top
//	a.Pop(b2, 4) // true
//	a.Pop(b1, 4) // true, the arena is empty again
//
// # Allocator API
//
// Arena implements mem.ResizableAllocator:
//
//   - Allocate / Deallocate map to Push / Pop
//   - TryGrow extends the top block in place
//   - TryShrink gives back the tail of the top block
//
// Push reports exhaustion with the empty block instead of panicking; Pop,
// TryGrow and TryShrink report "not on top" with false or the empty block.
// Higher layers decide whether that is fatal. The array package, for
// instance, simply leaks a block that can no longer be popped.
//
// # Alignment
//
// Both ends of every block are aligned to the requested alignment. Pass the
// same alignment to Pop, TryGrow and TryShrink as to the Push that produced
// the block; mixing alignments is not supported.
//
// # Lifetime
//
// Clear rewinds the cursor without touching memory. Release returns the
// region to the OS. Neither runs any cleanup for values stored in the arena.
//
// # Thread Safety
//
// Arena instances are not thread-safe. Callers must synchronize access
// externally.
package arena
