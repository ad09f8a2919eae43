//go:build windows

package osmem

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

func queryPageSize() int {
	return os.Getpagesize()
}

// Reserve reserves enough inaccessible pages to hold size bytes.
func Reserve(size uintptr) (unsafe.Pointer, uintptr, error) {
	n, err := PageSpan(size)
	if err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return nil, 0, fmt.Errorf("%w: zero-length reservation", ErrUnaligned)
	}
	addr, err := windows.VirtualAlloc(0, n, windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, 0, fmt.Errorf("osmem: VirtualAlloc reserve %d bytes: %w", n, err)
	}
	return unsafe.Pointer(addr), n, nil
}

// Commit makes n reserved bytes at p readable and writable.
func Commit(p unsafe.Pointer, n uintptr) error {
	if err := checkPages(n); err != nil {
		return err
	}
	_, err := windows.VirtualAlloc(uintptr(p), n, windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err
}

// Decommit returns the physical pages behind n bytes at p and removes access.
func Decommit(p unsafe.Pointer, n uintptr) error {
	if err := checkPages(n); err != nil {
		return err
	}
	return windows.VirtualFree(uintptr(p), n, windows.MEM_DECOMMIT)
}

// Release frees a range previously returned by Reserve.
func Release(p unsafe.Pointer, n uintptr) error {
	if err := checkPages(n); err != nil {
		return err
	}
	return windows.VirtualFree(uintptr(p), 0, windows.MEM_RELEASE)
}
