package mem

import "errors"

var (
	// ErrReserve indicates that the OS refused to reserve address space.
	ErrReserve = errors.New("mem: reserve failed")

	// ErrCommit indicates that reserved pages could not be made accessible.
	ErrCommit = errors.New("mem: commit failed")

	// ErrRelease indicates that pages could not be returned to the OS.
	ErrRelease = errors.New("mem: release failed")

	// ErrOutOfMemory indicates that an allocator could not satisfy a request.
	ErrOutOfMemory = errors.New("mem: out of memory")
)
