package array

import (
	"reflect"
	"slices"
	"testing"
	"unsafe"

	massert "github.com/joshuapare/memkit/internal/assert"
	"github.com/joshuapare/memkit/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray_DefaultConstruct(t *testing.T) {
	a := New[int]()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, a.Cap())
	assert.Nil(t, a.Data())
	assert.True(t, a.IsEmpty())
	assert.Empty(t, a.Slice())
}

func TestArray_ZeroValueIsUsable(t *testing.T) {
	var a Array[int32, mem.GlobalAllocator]
	a.Append(7)
	require.Equal(t, 1, a.Len())
	assert.Equal(t, int32(7), a.At(0))
	a.Free()
	assert.Nil(t, a.Data())
}

func TestArray_NewN(t *testing.T) {
	a := NewN(42, 42)
	defer a.Free()

	require.Equal(t, 42, a.Len())
	assert.Equal(t, 42, a.Cap(), "exact construction")
	for v := range a.Values() {
		assert.Equal(t, 42, v)
	}
}

func TestArray_AppendAtFullCapacity(t *testing.T) {
	a := NewN(8, int64(3))
	defer a.Free()
	for i := range 8 {
		a.Set(i, int64(i))
	}
	require.Equal(t, a.Len(), a.Cap())

	a.Append(100)
	require.Equal(t, 9, a.Len())
	assert.GreaterOrEqual(t, a.Cap(), 9)
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 6, 7, 100}, a.Slice())
}

func TestArray_AssignSliceReusesBlock(t *testing.T) {
	a := New[int]()
	defer a.Free()
	a.Reserve(32)
	a.AppendSlice([]int{9, 9, 9, 9, 9})
	ptr, capBefore := a.Data(), a.Cap()

	a.AssignSlice([]int{1, 2, 3})
	assert.Equal(t, capBefore, a.Cap())
	assert.Equal(t, ptr, a.Data())
	assert.Equal(t, []int{1, 2, 3}, a.Slice())
}

func TestArray_AssignRebuildsWhenTooSmall(t *testing.T) {
	a := FromSlice([]int{1, 2})
	defer a.Free()

	a.Assign(10, 5)
	assert.Equal(t, 10, a.Len())
	assert.Equal(t, 10, a.Cap(), "rebuilt block is exactly sized")
	assert.Equal(t, slices.Repeat([]int{5}, 10), a.Slice())

	a.Assign(3, 1)
	assert.Equal(t, 10, a.Cap())
	assert.Equal(t, []int{1, 1, 1}, a.Slice())
}

func TestArray_Reserve(t *testing.T) {
	a := New[uint16]()
	defer a.Free()

	a.Reserve(0)
	assert.Nil(t, a.Data())

	a.Reserve(10)
	assert.GreaterOrEqual(t, a.Cap(), 10)
	capAfter := a.Cap()
	a.Reserve(5)
	assert.Equal(t, capAfter, a.Cap(), "smaller reserve is a no-op")
	assert.Zero(t, a.Len())
}

func TestArray_Accessors(t *testing.T) {
	a := FromSlice([]int{10, 20, 30})
	defer a.Free()

	assert.Equal(t, 10, a.Front())
	assert.Equal(t, 30, a.Back())
	assert.Equal(t, 20, a.At(1))
	assert.Equal(t, 20, a.Get(1))

	*a.Ptr(1) = 21
	assert.Equal(t, 21, a.At(1))
	assert.Equal(t, unsafe.Pointer(a.Data()), unsafe.Pointer(a.Ptr(0)))
	assert.Equal(t, 3*unsafe.Sizeof(int(0)), a.SizeBytes())
	assert.Equal(t, unsafe.Alignof(int(0)), a.Alignment())

	var idx []int
	for i, v := range a.All() {
		idx = append(idx, i)
		assert.Equal(t, a.At(i), v)
	}
	assert.Equal(t, []int{0, 1, 2}, idx)
}

func TestArray_BoundsChecks(t *testing.T) {
	a := FromSlice([]int{1, 2, 3})
	defer a.Free()

	assert.PanicsWithError(t, "assertion failed: array: index 3 out of range [0,3)", func() { a.At(3) })
	assert.Panics(t, func() { a.At(-1) })
	assert.Panics(t, func() { a.Ptr(3) })
	assert.Panics(t, func() { a.Set(3, 0) })
	assert.Panics(t, func() { a.Insert(4, 0) })
	assert.Panics(t, func() { New[int]().Front() })
}

func TestArray_Insert(t *testing.T) {
	a := FromSlice([]int{1, 2, 4})
	defer a.Free()

	a.Insert(2, 3)
	a.Insert(0, 0)
	a.Insert(a.Len(), 5)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, a.Slice())

	a.InsertSlice(3, []int{100, 101})
	assert.Equal(t, []int{0, 1, 2, 100, 101, 3, 4, 5}, a.Slice())

	a.InsertSlice(1, nil)
	assert.Equal(t, 8, a.Len())
}

func TestArray_Remove(t *testing.T) {
	a := FromSlice([]int{0, 1, 2, 3, 4, 5, 6})
	defer a.Free()

	assert.Equal(t, 3, a.Remove(3))
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6}, a.Slice())

	a.RemoveRange(1, 3)
	assert.Equal(t, []int{0, 4, 5, 6}, a.Slice())

	a.RemoveRange(2, 2)
	assert.Equal(t, []int{0, 4, 5, 6}, a.Slice())

	assert.Equal(t, 6, a.Remove(a.Len()-1))
	assert.Equal(t, []int{0, 4, 5}, a.Slice())
}

func TestArray_VacatedSlotsAreZeroed(t *testing.T) {
	a := FromSlice([]int{1, 2, 3, 4})
	defer a.Free()

	a.Remove(0)
	a.RemoveRange(0, 1)
	raw := unsafe.Slice(a.Data(), a.Cap())
	assert.Equal(t, []int{3, 4, 0, 0}, raw)
}

func TestArray_Resize(t *testing.T) {
	a := New[int]()
	defer a.Free()

	a.ResizeFill(4, 7)
	assert.Equal(t, []int{7, 7, 7, 7}, a.Slice())

	a.Resize(6)
	assert.Equal(t, []int{7, 7, 7, 7, 0, 0}, a.Slice())

	a.Resize(2)
	assert.Equal(t, []int{7, 7}, a.Slice())
	assert.GreaterOrEqual(t, a.Cap(), 6)

	a.ResizeUninit(5)
	assert.Equal(t, 5, a.Len())
	a.ResizeUninit(1)
	assert.Equal(t, []int{7}, a.Slice())
}

func TestArray_NewUninit(t *testing.T) {
	a := NewUninit[uint32](16)
	defer a.Free()
	require.Equal(t, 16, a.Len())
	for i := range a.Len() {
		a.Set(i, uint32(i*i))
	}
	assert.Equal(t, uint32(225), a.Back())
}

func TestArray_AppendN(t *testing.T) {
	a := FromSlice([]int8{1})
	defer a.Free()

	a.AppendN(3, 9)
	a.AppendN(0, 5)
	assert.Equal(t, []int8{1, 9, 9, 9}, a.Slice())
	assert.Panics(t, func() { a.AppendN(-1, 0) })
}

func TestArray_SelfAliasing(t *testing.T) {
	a := FromSlice([]int{1, 2, 3})
	defer a.Free()
	require.Equal(t, a.Len(), a.Cap(), "next append must relocate")

	a.AppendSlice(a.Slice())
	assert.Equal(t, []int{1, 2, 3, 1, 2, 3}, a.Slice())

	a.InsertSlice(1, a.Slice()[:2])
	assert.Equal(t, []int{1, 1, 2, 2, 3, 1, 2, 3}, a.Slice())

	a.AssignSlice(a.Slice()[5:])
	assert.Equal(t, []int{1, 2, 3}, a.Slice())
}

func TestArray_FromSliceAndSeqRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 1000} {
		src := make([]int32, n)
		for i := range src {
			src[i] = int32(i * 3)
		}

		fromSlice := FromSlice(src)
		fromSeq := FromSeq(slices.Values(src))

		assert.Equal(t, n, fromSlice.Len())
		assert.Equal(t, n, fromSeq.Len())
		assert.Equal(t, src, slices.Collect(fromSlice.Values()), "n=%d", n)
		assert.Equal(t, src, slices.Collect(fromSeq.Values()), "n=%d", n)
		if n == 0 {
			assert.Nil(t, fromSlice.Data())
			assert.Nil(t, fromSeq.Data())
		}

		fromSlice.Free()
		fromSeq.Free()
	}
}

func TestArray_CloneIsDeep(t *testing.T) {
	a := FromSlice([]int{1, 2, 3})
	defer a.Free()

	c := a.Clone()
	defer c.Free()
	c.Set(0, 100)

	assert.Equal(t, []int{1, 2, 3}, a.Slice())
	assert.Equal(t, []int{100, 2, 3}, c.Slice())
	assert.NotEqual(t, a.Data(), c.Data())
}

func TestArray_CopyFrom(t *testing.T) {
	a := FromSlice([]int{1, 2, 3})
	defer a.Free()
	b := FromSlice([]int{9})
	defer b.Free()

	b.CopyFrom(a)
	assert.Equal(t, []int{1, 2, 3}, b.Slice())
	a.CopyFrom(a)
	assert.Equal(t, []int{1, 2, 3}, a.Slice())
}

func TestArray_Move(t *testing.T) {
	a := FromSlice([]int{1, 2, 3})
	data := a.Data()

	m := a.Move()
	defer m.Free()
	assert.Equal(t, data, m.Data())
	assert.Equal(t, []int{1, 2, 3}, m.Slice())
	assert.Zero(t, a.Len())
	assert.Zero(t, a.Cap())
	assert.Nil(t, a.Data())

	a.Append(4)
	assert.Equal(t, []int{4}, a.Slice())

	m.MoveFrom(a)
	assert.Equal(t, []int{4}, m.Slice())
	assert.Nil(t, a.Data())
}

func TestArray_Swap(t *testing.T) {
	a := FromSlice([]int{1, 2})
	b := FromSlice([]int{3})
	defer a.Free()
	defer b.Free()

	a.Swap(b)
	assert.Equal(t, []int{3}, a.Slice())
	assert.Equal(t, []int{1, 2}, b.Slice())
}

func TestArray_ShrinkToFit(t *testing.T) {
	a := New[int64]()
	a.Reserve(64)
	a.AppendSlice([]int64{1, 2, 3})

	a.ShrinkToFit()
	assert.Equal(t, 3, a.Cap())
	assert.Equal(t, []int64{1, 2, 3}, a.Slice())

	a.Clear()
	a.ShrinkToFit()
	assert.Zero(t, a.Cap())
	assert.Nil(t, a.Data())
}

func TestArray_ClearKeepsCapacity(t *testing.T) {
	a := FromSlice([]int{1, 2, 3})
	defer a.Free()
	data := a.Data()

	a.Clear()
	assert.Zero(t, a.Len())
	assert.Equal(t, 3, a.Cap())
	assert.Equal(t, data, a.Data())
}

func TestArray_RejectsPointerElements(t *testing.T) {
	type withString struct {
		id   int
		name string
	}

	cases := map[string]func(){
		"string":       func() { New[string]().Append("x") },
		"pointer":      func() { New[*int]().Append(nil) },
		"slice":        func() { New[[]byte]().Append(nil) },
		"nested":       func() { New[withString]().Append(withString{}) },
		"array of map": func() { New[[2]map[int]int]().Reserve(1) },
		"zero size":    func() { New[struct{}]().Append(struct{}{}) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				_, ok := r.(*massert.Violation)
				assert.True(t, ok, "panic value %T", r)
			}()
			fn()
		})
	}
}

func TestArray_AcceptsPointerFreeElements(t *testing.T) {
	type point struct {
		X, Y float64
		Tag  [4]byte
		_    [0]*int
	}

	a := New[point]()
	defer a.Free()
	a.Append(point{X: 1, Y: 2})
	assert.Equal(t, 1.0, a.Front().X)
}

func TestHasPointers(t *testing.T) {
	assert.False(t, hasPointers(reflect.TypeFor[[3]uint64]()))
	assert.False(t, hasPointers(reflect.TypeFor[[0]string]()))
	assert.False(t, hasPointers(reflect.TypeFor[complex128]()))
	assert.False(t, hasPointers(reflect.TypeFor[uintptr]()))
	assert.True(t, hasPointers(reflect.TypeFor[unsafe.Pointer]()))
	assert.True(t, hasPointers(reflect.TypeFor[any]()))
	assert.True(t, hasPointers(reflect.TypeFor[func()]()))
	assert.True(t, hasPointers(reflect.TypeFor[chan int]()))
}
