package array

import (
	"iter"
	"unsafe"

	"github.com/joshuapare/memkit/internal/assert"
	"github.com/joshuapare/memkit/mem"
)

// Array is a growable contiguous array of T whose storage comes from an
// allocator of type A.
//
// The zero value is an empty array using the zero value of A, which is only
// useful for stateless allocators such as mem.GlobalAllocator. Arrays over
// an arena or a tracking wrapper are created with NewWith.
type Array[T any, A mem.Allocator] struct {
	block mem.Block
	count int
	alloc A
}

// New returns an empty array on the Go heap. No memory is allocated until
// the first element is added.
func New[T any]() *Array[T, mem.GlobalAllocator] {
	return &Array[T, mem.GlobalAllocator]{}
}

// NewWith returns an empty array that allocates from alloc.
func NewWith[T any, A mem.Allocator](alloc A) *Array[T, A] {
	return &Array[T, A]{alloc: alloc}
}

// NewN returns an array of n copies of v on the Go heap.
func NewN[T any](n int, v T) *Array[T, mem.GlobalAllocator] {
	return NewNWith(mem.GlobalAllocator{}, n, v)
}

// NewNWith returns an array of n copies of v allocated from alloc.
func NewNWith[T any, A mem.Allocator](alloc A, n int, v T) *Array[T, A] {
	a := NewWith[T](alloc)
	a.grow(n, false)
	fill(a.raw()[:n], v)
	a.count = n
	return a
}

// NewUninit returns an array of n elements on the Go heap. The elements
// hold whatever the allocator returned and must be written before use.
func NewUninit[T any](n int) *Array[T, mem.GlobalAllocator] {
	return NewUninitWith[T](mem.GlobalAllocator{}, n)
}

// NewUninitWith is NewUninit for an explicit allocator.
func NewUninitWith[T any, A mem.Allocator](alloc A, n int) *Array[T, A] {
	a := NewWith[T](alloc)
	a.grow(n, false)
	a.count = n
	return a
}

// FromSlice copies s into a new array on the Go heap.
func FromSlice[T any](s []T) *Array[T, mem.GlobalAllocator] {
	return FromSliceWith(mem.GlobalAllocator{}, s)
}

// FromSliceWith copies s into a new array allocated from alloc. Storage is
// reserved once for the whole slice.
func FromSliceWith[T any, A mem.Allocator](alloc A, s []T) *Array[T, A] {
	a := NewWith[T](alloc)
	a.grow(len(s), false)
	copy(a.raw(), s)
	a.count = len(s)
	return a
}

// FromSeq collects seq into a new array on the Go heap.
func FromSeq[T any](seq iter.Seq[T]) *Array[T, mem.GlobalAllocator] {
	return FromSeqWith(mem.GlobalAllocator{}, seq)
}

// FromSeqWith collects seq into a new array allocated from alloc, one
// element at a time.
func FromSeqWith[T any, A mem.Allocator](alloc A, seq iter.Seq[T]) *Array[T, A] {
	a := NewWith[T](alloc)
	a.AppendSeq(seq)
	return a
}

// Len returns the number of live elements.
func (a *Array[T, A]) Len() int {
	return a.count
}

// Cap returns the number of elements the current block can hold.
func (a *Array[T, A]) Cap() int {
	return int(a.block.Size / elemSize[T]())
}

// IsEmpty reports whether the array has no live elements.
func (a *Array[T, A]) IsEmpty() bool {
	return a.count == 0
}

// SizeBytes returns the byte size of the live elements.
func (a *Array[T, A]) SizeBytes() uintptr {
	return uintptr(a.count) * elemSize[T]()
}

// Alignment returns the alignment used for every allocation.
func (a *Array[T, A]) Alignment() uintptr {
	return elemAlign[T]()
}

// Allocator returns the allocator backing the array.
func (a *Array[T, A]) Allocator() A {
	return a.alloc
}

// Block returns the block currently owned by the array.
func (a *Array[T, A]) Block() mem.Block {
	return a.block
}

// Data returns a pointer to the first element slot, or nil when the array
// owns no storage.
func (a *Array[T, A]) Data() *T {
	return (*T)(a.block.Ptr)
}

// Slice returns the live elements. The slice aliases the array's storage and
// is invalidated by anything that changes capacity. Its capacity equals its
// length, so appending to it copies to the Go heap.
func (a *Array[T, A]) Slice() []T {
	return a.raw()[:a.count:a.count]
}

// At returns the element at i. It panics when i is out of range.
func (a *Array[T, A]) At(i int) T {
	a.checkIndex(i)
	return a.raw()[i]
}

// Get returns the element at i. Bounds are only checked in memdebug
// builds; out-of-range reads otherwise return stale slot contents or panic
// on the underlying slice.
func (a *Array[T, A]) Get(i int) T {
	assert.Debug(i >= 0 && i < a.count, "array: index %d out of range [0,%d)", i, a.count)
	return a.raw()[i]
}

// Ptr returns a pointer to the element at i. It panics when i is out of range.
func (a *Array[T, A]) Ptr(i int) *T {
	a.checkIndex(i)
	return &a.raw()[i]
}

// Set replaces the element at i with v, destroying the old value.
func (a *Array[T, A]) Set(i int, v T) {
	a.checkIndex(i)
	slot := a.raw()[i : i+1]
	destroy(slot)
	slot[0] = v
}

// Front returns the first element. It panics on an empty array.
func (a *Array[T, A]) Front() T {
	assert.Strict(a.count > 0, "array: Front on empty array")
	return a.raw()[0]
}

// Back returns the last element. Emptiness is only checked in memdebug
// builds.
func (a *Array[T, A]) Back() T {
	assert.Debug(a.count > 0, "array: Back on empty array")
	return a.raw()[a.count-1]
}

// All yields index/value pairs in order.
func (a *Array[T, A]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < a.count; i++ {
			if !yield(i, *a.slot(i)) {
				return
			}
		}
	}
}

// Values yields the elements in order.
func (a *Array[T, A]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < a.count; i++ {
			if !yield(*a.slot(i)) {
				return
			}
		}
	}
}

func (a *Array[T, A]) slot(i int) *T {
	return (*T)(unsafe.Add(a.block.Ptr, uintptr(i)*elemSize[T]()))
}

func (a *Array[T, A]) checkIndex(i int) {
	assert.Strict(i >= 0 && i < a.count, "array: index %d out of range [0,%d)", i, a.count)
}

func fill[T any](s []T, v T) {
	for i := range s {
		s[i] = v
	}
}
