//go:build linux || darwin || freebsd

package osmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

func queryPageSize() int {
	return unix.Getpagesize()
}

// Reserve maps enough inaccessible pages to hold size bytes.
func Reserve(size uintptr) (unsafe.Pointer, uintptr, error) {
	n, err := PageSpan(size)
	if err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return nil, 0, fmt.Errorf("%w: zero-length reservation", ErrUnaligned)
	}
	data, err := unix.Mmap(-1, 0, int(n), unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, 0, fmt.Errorf("osmem: mmap %d bytes: %w", n, err)
	}
	return unsafe.Pointer(unsafe.SliceData(data)), n, nil
}

// Commit makes n reserved bytes at p readable and writable.
func Commit(p unsafe.Pointer, n uintptr) error {
	if err := checkPages(n); err != nil {
		return err
	}
	return unix.Mprotect(view(p, n), unix.PROT_READ|unix.PROT_WRITE)
}

// Decommit tells the OS the contents of n bytes at p may be discarded, then
// removes access to them.
func Decommit(p unsafe.Pointer, n uintptr) error {
	if err := checkPages(n); err != nil {
		return err
	}
	b := view(p, n)
	if err := unix.Madvise(b, unix.MADV_DONTNEED); err != nil {
		return fmt.Errorf("osmem: madvise: %w", err)
	}
	return unix.Mprotect(b, unix.PROT_NONE)
}

// Release unmaps a range previously returned by Reserve.
func Release(p unsafe.Pointer, n uintptr) error {
	if err := checkPages(n); err != nil {
		return err
	}
	return unix.Munmap(view(p, n))
}
