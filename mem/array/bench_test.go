package array

import (
	"testing"

	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/arena"
)

const benchAppends = 10_000

// BenchmarkArray_Append measures appending one element at a time on the Go
// heap, where growth relocates.
func BenchmarkArray_Append(b *testing.B) {
	b.ReportAllocs()

	for range b.N {
		a := New[uint64]()
		for i := range benchAppends {
			a.Append(uint64(i))
		}
		a.Free()
	}
}

// BenchmarkArray_AppendArena measures the same workload on an arena, where
// growth extends the block in place.
func BenchmarkArray_AppendArena(b *testing.B) {
	ar := arena.New(1 << 20)
	defer ar.Release()

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		a := NewWith[uint64](ar)
		for i := range benchAppends {
			a.Append(uint64(i))
		}
		a.Free()
	}
}

// BenchmarkArray_AppendPages measures the workload with fresh pages per
// block.
func BenchmarkArray_AppendPages(b *testing.B) {
	b.ReportAllocs()

	for range b.N {
		a := NewWith[uint64](mem.PagesAllocator{})
		for i := range benchAppends {
			a.Append(uint64(i))
		}
		a.Free()
	}
}

// BenchmarkArray_AppendReserved measures appends into reserved capacity.
func BenchmarkArray_AppendReserved(b *testing.B) {
	b.ReportAllocs()

	for range b.N {
		a := New[uint64]()
		a.Reserve(benchAppends)
		for i := range benchAppends {
			a.Append(uint64(i))
		}
		a.Free()
	}
}
