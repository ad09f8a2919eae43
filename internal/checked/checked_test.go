package checked

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	if sum, ok := Add[uint64](10, 5); !ok || sum != 15 {
		t.Fatalf("Add(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := Add[uint64](math.MaxUint64, 1); ok {
		t.Fatalf("expected overflow when adding to MaxUint64")
	}
	if _, ok := Add[uint8](200, 56); ok {
		t.Fatalf("expected overflow for uint8 200+56")
	}
	if sum, ok := Add[uint8](200, 55); !ok || sum != 255 {
		t.Fatalf("Add[uint8](200,55)=%d,%v want 255,true", sum, ok)
	}
}

func TestSub(t *testing.T) {
	diff, ok := Sub[uintptr](10, 3)
	require.True(t, ok)
	assert.Equal(t, uintptr(7), diff)

	_, ok = Sub[uintptr](3, 10)
	assert.False(t, ok, "underflow must be reported")
}

func TestMul(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want uint64
		ok   bool
	}{
		{"zero lhs", 0, math.MaxUint64, 0, true},
		{"zero rhs", math.MaxUint64, 0, 0, true},
		{"small", 6, 7, 42, true},
		{"max times one", math.MaxUint64, 1, math.MaxUint64, true},
		{"overflow", math.MaxUint64/2 + 1, 2, 0, false},
		{"huge", 1 << 40, 1 << 40, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Mul(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMulNarrowTypes(t *testing.T) {
	got, ok := Mul[uint16](256, 255)
	require.True(t, ok)
	assert.Equal(t, uint16(65280), got)

	_, ok = Mul[uint16](256, 256)
	assert.False(t, ok, "result does not fit in 16 bits")
}

func TestShl(t *testing.T) {
	got, ok := Shl[uint64](1, 10)
	require.True(t, ok)
	assert.Equal(t, uint64(1024), got)

	_, ok = Shl[uint64](1, 64)
	assert.False(t, ok, "shift amount equal to width")

	_, ok = Shl[uint64](3, 63)
	assert.False(t, ok, "set bit shifted out")

	got, ok = Shl[uint64](0, 63)
	require.True(t, ok)
	assert.Zero(t, got)
}

func TestStrictPanics(t *testing.T) {
	assert.Equal(t, uint64(42), StrictMul[uint64](6, 7))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error")
		var oe *OverflowError
		require.True(t, errors.As(err, &oe))
		assert.Equal(t, "mul", oe.Op)
	}()
	StrictMul[uint64](math.MaxUint64, 2)
}

func TestStrictVariants(t *testing.T) {
	assert.Panics(t, func() { StrictAdd[uint32](math.MaxUint32, 1) })
	assert.Panics(t, func() { StrictSub[uint32](0, 1) })
	assert.Panics(t, func() { StrictShl[uint32](1, 32) })
	assert.NotPanics(t, func() { StrictShl[uint32](1, 31) })
}

func TestSaturating(t *testing.T) {
	assert.Equal(t, ^uintptr(0), SaturatingMul[uintptr](^uintptr(0)/2+1, 2))
	assert.Equal(t, uintptr(84), SaturatingMul[uintptr](42, 2))
	assert.Equal(t, uint8(255), SaturatingAdd[uint8](250, 10))
	assert.Equal(t, uint8(12), SaturatingAdd[uint8](2, 10))
}

func TestIntFits(t *testing.T) {
	assert.True(t, IntFits[uint64](math.MaxInt))
	assert.False(t, IntFits[uint64](math.MaxInt+1))
}
