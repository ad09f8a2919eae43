// Package osmem provides platform-specific helpers for reserving and
// committing virtual memory in page-sized units.
//
// Reserve maps address space with no access rights; Commit grants read/write
// access; Decommit lets the OS discard the contents and removes access again;
// Release returns the range to the OS. Commit, Decommit and Release must be
// called with a page multiple, and Release only with the exact range that
// Reserve returned.
package osmem

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/memkit/internal/checked"
)

// ErrUnaligned is returned when a size is not a multiple of the page size.
var ErrUnaligned = errors.New("osmem: size is not a multiple of the page size")

// ErrTooLarge is returned when a request cannot be rounded to whole pages.
var ErrTooLarge = errors.New("osmem: size too large")

var pageSize = sync.OnceValue(queryPageSize)

// PageSize returns the OS page size in bytes. The value is queried once and
// then cached for the lifetime of the process.
func PageSize() int {
	return pageSize()
}

// PageSpan rounds size up to a whole number of pages.
func PageSpan(size uintptr) (uintptr, error) {
	page := uintptr(PageSize())
	padded, ok := checked.Add(size, page-1)
	if !ok || !checked.IntFits(padded) {
		return 0, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	return padded &^ (page - 1), nil
}

func checkPages(n uintptr) error {
	if n == 0 || n%uintptr(PageSize()) != 0 {
		return fmt.Errorf("%w: %d bytes", ErrUnaligned, n)
	}
	return nil
}

// view exposes n bytes at p as a slice for the syscall wrappers that take one.
func view(p unsafe.Pointer, n uintptr) []byte {
	return unsafe.Slice((*byte)(p), n)
}
