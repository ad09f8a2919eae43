package mem

import "unsafe"

func unsafePtr(buf []byte, off uintptr) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(buf)), off)
}
