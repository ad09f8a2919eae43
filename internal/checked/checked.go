// Package checked provides overflow-aware integer arithmetic for size computations.
//
// Every operation comes in two flavours:
//
//   - Add, Sub, Mul, Shl return (result, ok) and never panic. ok is false when
//     the exact result is not representable.
//   - StrictAdd, StrictSub, StrictMul, StrictShl panic when the checked variant
//     reports overflow.
//
// SaturatingAdd and SaturatingMul clamp to the maximum value instead.
package checked

import (
	"fmt"
	"math"
	"math/bits"
)

// Unsigned is the set of unsigned integer types used for byte counts.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Add adds a and b, returning ok = false when the result would overflow T.
func Add[T Unsigned](a, b T) (T, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// Sub subtracts b from a, returning ok = false when the result would be negative.
func Sub[T Unsigned](a, b T) (T, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// Mul multiplies a and b, returning ok = false when the result would overflow T.
// This is the guard for count * elementSize computations.
func Mul[T Unsigned](a, b T) (T, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 {
		return 0, false
	}
	product := T(lo)
	if uint64(product) != lo {
		return 0, false
	}
	return product, true
}

// Shl shifts x left by n bits, returning ok = false when n is at least the
// width of T or when set bits would be shifted out.
func Shl[T Unsigned](x T, n uint) (T, bool) {
	width := uint(bitsOf[T]())
	if n >= width {
		return 0, false
	}
	shifted := x << n
	if shifted>>n != x {
		return 0, false
	}
	return shifted, true
}

// StrictAdd is Add that panics on overflow.
func StrictAdd[T Unsigned](a, b T) T {
	sum, ok := Add(a, b)
	if !ok {
		panic(overflow("add", a, b))
	}
	return sum
}

// StrictSub is Sub that panics on underflow.
func StrictSub[T Unsigned](a, b T) T {
	diff, ok := Sub(a, b)
	if !ok {
		panic(overflow("sub", a, b))
	}
	return diff
}

// StrictMul is Mul that panics on overflow.
func StrictMul[T Unsigned](a, b T) T {
	product, ok := Mul(a, b)
	if !ok {
		panic(overflow("mul", a, b))
	}
	return product
}

// StrictShl is Shl that panics on overflow.
func StrictShl[T Unsigned](x T, n uint) T {
	shifted, ok := Shl(x, n)
	if !ok {
		panic(overflow("shl", x, T(n)))
	}
	return shifted
}

// SaturatingAdd adds a and b, clamping to the maximum value of T.
func SaturatingAdd[T Unsigned](a, b T) T {
	if sum, ok := Add(a, b); ok {
		return sum
	}
	return Max[T]()
}

// SaturatingMul multiplies a and b, clamping to the maximum value of T.
func SaturatingMul[T Unsigned](a, b T) T {
	if product, ok := Mul(a, b); ok {
		return product
	}
	return Max[T]()
}

// Max returns the largest value representable by T.
func Max[T Unsigned]() T {
	var zero T
	return ^zero
}

// IntFits reports whether the unsigned value v can be held in an int.
func IntFits[T Unsigned](v T) bool {
	return uint64(v) <= math.MaxInt
}

func bitsOf[T Unsigned]() int {
	return bits.OnesCount64(uint64(Max[T]()))
}

// OverflowError describes an arithmetic operation whose result was not representable.
type OverflowError struct {
	Op   string
	A, B uint64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("checked: %s overflow: %d, %d", e.Op, e.A, e.B)
}

func overflow[T Unsigned](op string, a, b T) error {
	return &OverflowError{Op: op, A: uint64(a), B: uint64(b)}
}
