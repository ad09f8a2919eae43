// Package bytesize provides byte-size units with overflow-checked
// construction, parsing and human-readable formatting.
//
//	arena.New(64 * bytesize.KiB.Uintptr())
//	size, err := bytesize.Parse("64KiB")
//	fmt.Println(bytesize.Must(3, bytesize.MiB)) // 3.0 MiB
package bytesize

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/dustin/go-humanize"

	"github.com/joshuapare/memkit/internal/assert"
	"github.com/joshuapare/memkit/internal/checked"
)

var (
	// ErrOverflow indicates that a size does not fit in the target type.
	ErrOverflow = errors.New("bytesize: overflow")

	// ErrSyntax indicates that a string is not a valid size.
	ErrSyntax = errors.New("bytesize: invalid syntax")
)

// Size is a number of bytes.
type Size uint64

// Binary (IEC 60027-2) units.
const (
	B   Size = 1
	KiB      = B << 10
	MiB      = B << 20
	GiB      = B << 30
	TiB      = B << 40
	PiB      = B << 50
	EiB      = B << 60
)

// Decimal (SI) units.
const (
	KB Size = 1000
	MB      = KB * 1000
	GB      = MB * 1000
	TB      = GB * 1000
	PB      = TB * 1000
	EB      = PB * 1000
)

// Of returns n units, reporting false when the product overflows.
func Of(n uint64, unit Size) (Size, bool) {
	if shift, ok := unit.shift(); ok {
		v, ok := checked.Shl(n, shift)
		return Size(v), ok
	}
	v, ok := checked.Mul(n, uint64(unit))
	return Size(v), ok
}

// Must returns n units and panics when the product overflows.
func Must(n uint64, unit Size) Size {
	if shift, ok := unit.shift(); ok {
		return Size(checked.StrictShl(n, shift))
	}
	return Size(checked.StrictMul(n, uint64(unit)))
}

// shift reports the exponent of a power-of-two unit such as KiB.
func (s Size) shift() (uint, bool) {
	if s == 0 || s&(s-1) != 0 {
		return 0, false
	}
	return uint(bits.TrailingZeros64(uint64(s))), true
}

// Bytes returns s as a plain byte count.
func (s Size) Bytes() uint64 {
	return uint64(s)
}

// Uintptr returns s as a uintptr and panics if it does not fit.
func (s Size) Uintptr() uintptr {
	assert.Strict(uint64(uintptr(s)) == uint64(s), "bytesize: %d does not fit in uintptr", uint64(s))
	return uintptr(s)
}

// ToUintptr returns s as a uintptr, or ErrOverflow if it does not fit.
func (s Size) ToUintptr() (uintptr, error) {
	if uint64(uintptr(s)) != uint64(s) {
		return 0, fmt.Errorf("%w: %d bytes", ErrOverflow, uint64(s))
	}
	return uintptr(s), nil
}

// String formats s with binary units, for example "64 KiB".
func (s Size) String() string {
	return humanize.IBytes(uint64(s))
}

// SI formats s with decimal units, for example "66 kB".
func (s Size) SI() string {
	return humanize.Bytes(uint64(s))
}

// Parse reads a size such as "512", "64K", "64KB", "64KiB" or "1 GiB".
// Units are binary: K, KB and KiB all mean 1024 bytes. Case is ignored for
// the unit prefix, but a lowercase b after an uppercase prefix ("Kb") is
// rejected as bits.
func Parse(s string) (Size, error) {
	text := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if text == "" {
		return 0, fmt.Errorf("%w: empty size", ErrSyntax)
	}
	text = stripIEC(text)

	var v datasize.ByteSize
	if err := v.UnmarshalText([]byte(text)); err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
		}
		return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return Size(v.Bytes()), nil
}

// MustParse is Parse that panics on error.
func MustParse(s string) Size {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// stripIEC turns a "KiB"-style suffix into the "KB" form datasize reads.
func stripIEC(text string) string {
	n := len(text)
	if n < 3 {
		return text
	}
	suffix := text[n-2:]
	if (suffix == "iB" || suffix == "ib") && isPrefix(text[n-3]) {
		return text[:n-2] + text[n-1:]
	}
	return text
}

func isPrefix(c byte) bool {
	return strings.IndexByte("KMGTPEkmgtpe", c) >= 0
}

// Set implements pflag.Value so a Size can be bound to a command-line flag.
func (s *Size) Set(text string) error {
	v, err := Parse(text)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Type implements pflag.Value.
func (*Size) Type() string {
	return "size"
}

// MarshalText writes s as a byte count with a binary unit.
func (s Size) MarshalText() ([]byte, error) {
	return []byte(datasize.ByteSize(s).String()), nil
}

// UnmarshalText reads s with Parse.
func (s *Size) UnmarshalText(text []byte) error {
	return s.Set(string(text))
}
