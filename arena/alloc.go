package arena

import (
	"runtime"
	"unsafe"
)

// Alloc returns a pointer to a zeroed T stored inside the arena.
// The pointer stays valid (and fixed) until the arena is released.
func Alloc[T any](a *Arena) *T {
	var zero T
	b := a.AllocBytes(int(unsafe.Sizeof(zero)))
	if len(b) > 0 {
		clear(b)
	}
	return (*T)(unsafe.Pointer(&b[0]))
}

// AllocUninitialized returns a *T located in the arena without zeroing
// the memory. Faster than Alloc; the contents are undefined.
func AllocUninitialized[T any](a *Arena) *T {
	var zero T
	b := a.AllocBytes(int(unsafe.Sizeof(zero)))
	return (*T)(unsafe.Pointer(&b[0]))
}

// AllocSlice allocates a slice of n elements of type T inside the
// arena. The elements are not initialized. Returns nil if n <= 0.
func AllocSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	b := a.AllocBytes(int(unsafe.Sizeof(zero)) * n)
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}

// AllocSliceZeroed allocates a slice of n zeroed elements of type T.
func AllocSliceZeroed[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	b := a.AllocBytes(int(unsafe.Sizeof(zero)) * n)
	clear(b)
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}

// PtrAndKeepAlive returns t and calls runtime.KeepAlive on the arena,
// preventing it from being collected while t is still in use from
// unsafe code.
func PtrAndKeepAlive[T any](a *Arena, t *T) *T {
	runtime.KeepAlive(a)
	return t
}
