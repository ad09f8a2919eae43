package array

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"unsafe"

	"github.com/joshuapare/memkit/internal/assert"
	"github.com/joshuapare/memkit/internal/checked"
	"github.com/joshuapare/memkit/mem"
)

// Destroyer is implemented by element types that own something outside the
// array. Destroy is called once for every value the array discards.
type Destroyer interface {
	Destroy()
}

func elemSize[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

func elemAlign[T any]() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

// raw returns the whole block as a slice of capacity elements.
func (a *Array[T, A]) raw() []T {
	if a.block.Ptr == nil {
		return nil
	}
	return unsafe.Slice((*T)(a.block.Ptr), a.Cap())
}

// bytesFor returns n*sizeof(T), panicking if it does not fit in a uintptr.
func (a *Array[T, A]) bytesFor(n int) uintptr {
	size, ok := checked.Mul(uintptr(n), elemSize[T]())
	assert.Strict(ok, "array: %d elements of %d bytes overflow", n, elemSize[T]())
	return size
}

// grow ensures room for n elements. With amortized set, the target is at
// least double the current block.
func (a *Array[T, A]) grow(n int, amortized bool) {
	assert.Strict(n >= 0, "array: negative capacity %d", n)
	if n <= a.Cap() {
		return
	}
	checkElem[T]()

	need := a.bytesFor(n)
	target := need
	if amortized {
		target = max(checked.SaturatingMul(a.block.Size, 2), need)
	}

	if a.block.Ptr != nil && a.growInPlace(target, need) {
		return
	}

	nb := a.alloc.Allocate(target, elemAlign[T]())
	if nb.IsEmpty() && target > need {
		nb = a.alloc.Allocate(need, elemAlign[T]())
	}
	if nb.IsEmpty() {
		panic(fmt.Errorf("array: %w: %d bytes", mem.ErrOutOfMemory, need))
	}
	a.relocate(nb)
}

// growInPlace asks the allocator to extend the current block, first to
// target bytes and then to need bytes.
func (a *Array[T, A]) growInPlace(target, need uintptr) bool {
	for _, size := range []uintptr{target, need} {
		if size <= a.block.Size {
			continue
		}
		b := mem.TryGrow(a.alloc, a.block, elemAlign[T](), size-a.block.Size)
		if !b.IsEmpty() {
			a.block = b
			return true
		}
		if target == need {
			break
		}
	}
	return false
}

// relocate moves the live elements into nb and gives the old block back.
func (a *Array[T, A]) relocate(nb mem.Block) {
	if a.count > 0 {
		dst := unsafe.Slice((*T)(nb.Ptr), a.count)
		live := a.raw()[:a.count]
		copy(dst, live)
		clear(live)
	}
	a.deallocate()
	a.block = nb
}

// rebuild drops every element and the block, then allocates exactly n
// elements.
func (a *Array[T, A]) rebuild(n int) {
	a.Clear()
	a.deallocate()
	if n == 0 {
		return
	}
	checkElem[T]()
	need := a.bytesFor(n)
	nb := a.alloc.Allocate(need, elemAlign[T]())
	if nb.IsEmpty() {
		panic(fmt.Errorf("array: %w: %d bytes", mem.ErrOutOfMemory, need))
	}
	a.block = nb
}

func (a *Array[T, A]) deallocate() {
	if a.block.Ptr != nil {
		a.alloc.Deallocate(a.block, elemAlign[T]())
		a.block = mem.Block{}
	}
}

// overlaps reports whether s points into the array's block.
func (a *Array[T, A]) overlaps(s []T) bool {
	if len(s) == 0 || a.block.Ptr == nil {
		return false
	}
	return a.block.Contains(uintptr(unsafe.Pointer(unsafe.SliceData(s))))
}

// detach copies s to the Go heap if it aliases the array's storage.
func (a *Array[T, A]) detach(s []T) []T {
	if a.overlaps(s) {
		return slices.Clone(s)
	}
	return s
}

// destroy notifies Destroyer elements in s, last to first, and zeroes the
// slots.
func destroy[T any](s []T) {
	if _, ok := any((*T)(nil)).(Destroyer); ok {
		for i := len(s) - 1; i >= 0; i-- {
			any(&s[i]).(Destroyer).Destroy()
		}
	}
	clear(s)
}

var elemChecks sync.Map // reflect.Type -> error

// checkElem panics if T cannot live in allocator memory.
func checkElem[T any]() {
	t := reflect.TypeFor[T]()
	if v, ok := elemChecks.Load(t); ok {
		if v != nil {
			panic(v)
		}
		return
	}

	var err error
	switch {
	case t.Size() == 0:
		err = &assert.Violation{Msg: fmt.Sprintf("array: element type %v has size zero", t)}
	case hasPointers(t):
		err = &assert.Violation{Msg: fmt.Sprintf("array: element type %v contains Go pointers", t)}
	}
	if err == nil {
		elemChecks.Store(t, nil)
		return
	}
	elemChecks.Store(t, err)
	panic(err)
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
