// Package array provides Array, a growable contiguous array generic over the
// allocator that backs it.
//
// # Overview
//
// Array[T, A] keeps its elements in a single mem.Block obtained from an
// allocator of type A. Any mem.Allocator works; when A can also grow or
// shrink blocks in place (an arena, for instance) the array uses that before
// falling back to allocate, relocate and free.
//
//	xs := array.New[int]()           // Go heap
//	defer xs.Free()
//	xs.Append(1)
//	xs.AppendSlice([]int{2, 3, 4})
//
//	a := arena.New(1 << 20)
//	ys := array.NewWith[uint64](a)   // arena-backed
//
// # Growth
//
// Appends and inserts grow capacity geometrically: the new block holds at
// least twice the old byte size, or the requested size if that is larger.
// The doubling saturates instead of wrapping. Reserve, growing Resize and
// exact constructors allocate exactly what is asked.
//
// If the allocator cannot provide the doubled size (a nearly full arena),
// the array retries once with the exact size before giving up with a panic
// wrapping mem.ErrOutOfMemory.
//
// # Element Types
//
// The garbage collector does not scan allocator memory, so T must be free of
// Go pointers: no pointers, strings, slices, maps, channels, funcs or
// interfaces, directly or in nested fields. Zero-sized types are rejected
// too. Both are checked the first time the array allocates.
//
// Elements are moved by copying their bytes; the vacated slot needs no
// cleanup. Types whose pointer implements Destroyer are told when the array
// discards a value it owns: Clear, a shrinking Resize, RemoveRange,
// overwrites by Set and Assign, and Free. Moving a value out (Remove) or
// relocating it does not destroy it.
//
// # Invalidation
//
// Anything that can change capacity (Reserve, growing appends, Resize,
// Assign, Insert) invalidates pointers and slices previously obtained from
// Data, Ptr or Slice. Operations that only shift elements keep the block but
// change which index holds which value.
//
// # Lifetime
//
// Go has no destructors: call Free when done. Move transfers the storage to
// a new Array and leaves the receiver empty. Clone makes a deep copy using
// the same allocator.
//
// # Thread Safety
//
// Array instances are not thread-safe.
package array
