//go:build !linux && !darwin && !freebsd && !windows

package osmem

import (
	"fmt"
	"os"
	"unsafe"
)

// Without a virtual memory API the reservation lives on the Go heap; it is
// kept alive by the pointer handed back to the caller.

func queryPageSize() int {
	return os.Getpagesize()
}

// Reserve allocates page-aligned heap memory for size bytes.
func Reserve(size uintptr) (unsafe.Pointer, uintptr, error) {
	n, err := PageSpan(size)
	if err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return nil, 0, fmt.Errorf("%w: zero-length reservation", ErrUnaligned)
	}
	page := uintptr(PageSize())
	buf := make([]byte, n+page)
	base := unsafe.Pointer(unsafe.SliceData(buf))
	shift := (page - uintptr(base)%page) % page
	return unsafe.Add(base, shift), n, nil
}

// Commit is a no-op: heap memory is always accessible.
func Commit(p unsafe.Pointer, n uintptr) error {
	return checkPages(n)
}

// Decommit zeroes the range in place of discarding it.
func Decommit(p unsafe.Pointer, n uintptr) error {
	if err := checkPages(n); err != nil {
		return err
	}
	clear(view(p, n))
	return nil
}

// Release drops nothing; the garbage collector reclaims the memory once the
// last pointer to it is gone.
func Release(p unsafe.Pointer, n uintptr) error {
	return checkPages(n)
}
