package array

import (
	"iter"

	"github.com/joshuapare/memkit/internal/assert"
	"github.com/joshuapare/memkit/internal/checked"
	"github.com/joshuapare/memkit/mem"
)

// Reserve makes room for at least n elements. It allocates exactly n when it
// has to grow and does nothing when n <= Cap().
func (a *Array[T, A]) Reserve(n int) {
	a.grow(n, false)
}

// Append adds v at the end.
func (a *Array[T, A]) Append(v T) {
	a.grow(a.count+1, true)
	a.raw()[a.count] = v
	a.count++
}

// AppendN adds n copies of v at the end.
func (a *Array[T, A]) AppendN(n int, v T) {
	assert.Strict(n >= 0, "array: negative count %d", n)
	newLen := a.addLen(n)
	a.grow(newLen, true)
	fill(a.raw()[a.count:newLen], v)
	a.count = newLen
}

// AppendSlice adds the elements of s at the end, growing at most once.
// s may alias the array itself.
func (a *Array[T, A]) AppendSlice(s []T) {
	if len(s) == 0 {
		return
	}
	s = a.detach(s)
	newLen := a.addLen(len(s))
	a.grow(newLen, true)
	copy(a.raw()[a.count:newLen], s)
	a.count = newLen
}

// AppendSeq adds every value of seq at the end, one at a time.
func (a *Array[T, A]) AppendSeq(seq iter.Seq[T]) {
	for v := range seq {
		a.Append(v)
	}
}

// Resize sets the length to n, adding zero values or destroying trailing
// elements as needed.
func (a *Array[T, A]) Resize(n int) {
	var zero T
	a.ResizeFill(n, zero)
}

// ResizeFill sets the length to n, adding copies of v or destroying trailing
// elements as needed.
func (a *Array[T, A]) ResizeFill(n int, v T) {
	assert.Strict(n >= 0, "array: negative length %d", n)
	switch {
	case n > a.count:
		a.grow(n, false)
		fill(a.raw()[a.count:n], v)
	case n < a.count:
		destroy(a.raw()[n:a.count])
	}
	a.count = n
}

// ResizeUninit sets the length to n. New elements are not written and hold
// whatever the storage contained.
func (a *Array[T, A]) ResizeUninit(n int) {
	assert.Strict(n >= 0, "array: negative length %d", n)
	switch {
	case n > a.count:
		a.grow(n, false)
	case n < a.count:
		destroy(a.raw()[n:a.count])
	}
	a.count = n
}

// Assign replaces the contents with n copies of v. The current block is
// reused when it is large enough; otherwise the array is rebuilt into an
// exactly-sized block.
func (a *Array[T, A]) Assign(n int, v T) {
	assert.Strict(n >= 0, "array: negative length %d", n)
	if n > a.Cap() {
		a.rebuild(n)
		fill(a.raw()[:n], v)
		a.count = n
		return
	}
	live := a.raw()[:max(n, a.count)]
	destroy(live[:a.count])
	fill(live[:n], v)
	a.count = n
}

// AssignSlice replaces the contents with a copy of s, following the same
// reuse rule as Assign. s may alias the array itself.
func (a *Array[T, A]) AssignSlice(s []T) {
	s = a.detach(s)
	n := len(s)
	if n > a.Cap() {
		a.rebuild(n)
	} else {
		destroy(a.raw()[:a.count])
	}
	copy(a.raw(), s)
	a.count = n
}

// Insert puts v at index i, shifting [i, Len()) one slot to the right.
// i may equal Len().
func (a *Array[T, A]) Insert(i int, v T) {
	a.checkInsert(i)
	a.grow(a.count+1, true)
	raw := a.raw()
	copy(raw[i+1:a.count+1], raw[i:a.count])
	raw[i] = v
	a.count++
}

// InsertSlice puts the elements of s at index i, shifting [i, Len()) right
// by len(s). s may alias the array itself.
func (a *Array[T, A]) InsertSlice(i int, s []T) {
	a.checkInsert(i)
	if len(s) == 0 {
		return
	}
	s = a.detach(s)
	k := len(s)
	newLen := a.addLen(k)
	a.grow(newLen, true)
	raw := a.raw()
	copy(raw[i+k:newLen], raw[i:a.count])
	copy(raw[i:i+k], s)
	a.count = newLen
}

// Remove takes the element at i out of the array and returns it, shifting
// the tail left. The returned value is not destroyed.
func (a *Array[T, A]) Remove(i int) T {
	a.checkIndex(i)
	raw := a.raw()
	v := raw[i]
	copy(raw[i:a.count-1], raw[i+1:a.count])
	var zero T
	raw[a.count-1] = zero
	a.count--
	return v
}

// RemoveRange destroys [start, end) and shifts the tail left. The range is
// only validated in memdebug builds.
func (a *Array[T, A]) RemoveRange(start, end int) {
	assert.Debug(0 <= start && start <= end && end <= a.count,
		"array: range [%d,%d) out of range [0,%d)", start, end, a.count)
	if start == end {
		return
	}
	raw := a.raw()[:a.count]
	destroy(raw[start:end])
	copy(raw[start:], raw[end:])
	newLen := a.count - (end - start)
	clear(raw[newLen:])
	a.count = newLen
}

// Clear destroys every element. Capacity is kept.
func (a *Array[T, A]) Clear() {
	destroy(a.raw()[:a.count])
	a.count = 0
}

// ShrinkToFit reduces capacity to Len(). It shrinks in place when the
// allocator supports it and otherwise moves to a smaller block. If no
// smaller block is available the array is left as is.
//
// An allocator that shrinks in place, such as the arena, only frees the
// tail of its most recent block. When that fails the array is left as is,
// since moving would take new space without freeing the old block.
func (a *Array[T, A]) ShrinkToFit() {
	if a.block.Ptr == nil || a.count == a.Cap() {
		return
	}
	if a.count == 0 {
		a.deallocate()
		return
	}
	size := a.bytesFor(a.count)
	if mem.TryShrink(a.alloc, a.block, elemAlign[T](), size) {
		a.block.Size = size
		return
	}
	if mem.CanShrink(a.alloc) {
		return
	}
	nb := a.alloc.Allocate(size, elemAlign[T]())
	if nb.IsEmpty() {
		return
	}
	if nb.Size >= a.block.Size {
		a.alloc.Deallocate(nb, elemAlign[T]())
		return
	}
	a.relocate(nb)
}

// Clone returns a deep copy sharing the same allocator value.
func (a *Array[T, A]) Clone() *Array[T, A] {
	c := NewWith[T](a.alloc)
	c.AppendSlice(a.Slice())
	return c
}

// CopyFrom replaces the contents with a copy of other's elements.
func (a *Array[T, A]) CopyFrom(other *Array[T, A]) {
	if a == other {
		return
	}
	a.AssignSlice(other.Slice())
}

// Move returns a new array that owns the storage and elements of a, leaving
// a empty and without storage. a keeps its allocator and stays usable.
func (a *Array[T, A]) Move() *Array[T, A] {
	m := &Array[T, A]{block: a.block, count: a.count, alloc: a.alloc}
	a.block = mem.Block{}
	a.count = 0
	return m
}

// MoveFrom frees a's contents and takes over other's storage, elements and
// allocator, leaving other empty.
func (a *Array[T, A]) MoveFrom(other *Array[T, A]) {
	if a == other {
		return
	}
	a.Free()
	a.block, a.count, a.alloc = other.block, other.count, other.alloc
	other.block = mem.Block{}
	other.count = 0
}

// Swap exchanges the contents and allocators of a and other.
func (a *Array[T, A]) Swap(other *Array[T, A]) {
	*a, *other = *other, *a
}

// Free destroys every element and gives the block back to the allocator.
// The array is empty afterwards and can be reused.
func (a *Array[T, A]) Free() {
	a.Clear()
	a.deallocate()
}

func (a *Array[T, A]) addLen(n int) int {
	sum, ok := checked.Add(uint(a.count), uint(n))
	assert.Strict(ok && checked.IntFits(sum), "array: length %d + %d overflows", a.count, n)
	return int(sum)
}

func (a *Array[T, A]) checkInsert(i int) {
	assert.Strict(i >= 0 && i <= a.count, "array: insert index %d out of range [0,%d]", i, a.count)
}
