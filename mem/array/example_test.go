package array_test

import (
	"fmt"

	"github.com/joshuapare/memkit/mem/arena"
	"github.com/joshuapare/memkit/mem/array"
)

func Example() {
	xs := array.New[int]()
	defer xs.Free()

	xs.Append(3)
	xs.AppendSlice([]int{4, 5})
	xs.Insert(0, 2)
	fmt.Println(xs.Slice(), xs.Len())

	fmt.Println(xs.Remove(1), xs.Slice())
	// Output:
	// [2 3 4 5] 4
	// 3 [2 4 5]
}

func ExampleNewWith() {
	a := arena.New(64 << 10)
	defer a.Release()

	xs := array.NewWith[uint32](a)
	for i := range uint32(1000) {
		xs.Append(i * i)
	}
	fmt.Println(xs.Len(), xs.Back())

	xs.Free()
	fmt.Println(a.IsEmpty())
	// Output:
	// 1000 998001
	// true
}

func ExampleNewN() {
	xs := array.NewN(4, int16(42))
	defer xs.Free()
	fmt.Println(xs.Slice())
	// Output: [42 42 42 42]
}
