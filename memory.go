package memview

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// Memory is a bounded, type-safe view over a contiguous block of
// elements of type T. The backing storage may be a slice, an immutable
// text buffer, an immutable UTF-8 buffer, or a Manager; the view
// itself never owns the memory and never copies it.
//
// Memory is a small immutable value: it is cheap to copy, and every
// "mutating" operation returns a new value. The zero Memory is the
// canonical empty view. A single Memory value must not be written by
// one goroutine while read by another; see the package documentation.
type Memory[T any] struct {
	view
}

// Of returns a Memory over the whole of buf. A nil buf yields the
// canonical empty view.
func Of[T any](buf []T) Memory[T] {
	if buf == nil {
		return Memory[T]{}
	}
	return Memory[T]{view{owner: buf, n: checkSize("buffer length", len(buf)), kind: kindSlice}}
}

// OfFrom returns a Memory over buf[start:]. A nil buf is legal only
// with start == 0, which yields the canonical empty view.
func OfFrom[T any](buf []T, start int) Memory[T] {
	if buf == nil {
		if start != 0 {
			panic(errors.Wrapf(ErrOutOfRange, "start %d on nil buffer", start))
		}
		return Memory[T]{}
	}
	if uint(start) > uint(len(buf)) {
		panic(errors.Wrapf(ErrOutOfRange, "start %d on buffer with length %d", start, len(buf)))
	}
	checkSize("buffer length", len(buf))
	return Memory[T]{view{owner: buf, off: int32(start), n: int32(len(buf) - start), kind: kindSlice}}
}

// OfRange returns a Memory over buf[start : start+length]. A nil buf
// is legal only with start == 0 and length == 0.
func OfRange[T any](buf []T, start, length int) Memory[T] {
	if buf == nil {
		if start != 0 || length != 0 {
			panic(errors.Wrapf(ErrOutOfRange, "range [%d:+%d] on nil buffer", start, length))
		}
		return Memory[T]{}
	}
	if uint(start) > uint(len(buf)) {
		panic(errors.Wrapf(ErrOutOfRange, "start %d on buffer with length %d", start, len(buf)))
	}
	if uint(length) > uint(len(buf)-start) {
		panic(errors.Wrapf(ErrOutOfRange, "length %d at start %d on buffer with length %d", length, start, len(buf)))
	}
	checkSize("buffer length", len(buf))
	return Memory[T]{view{owner: buf, off: int32(start), n: int32(length), kind: kindSlice}}
}

// OfAny is the runtime-typed construction path: arr must be a []T.
// It panics with ErrTypeMismatch when arr's concrete element type is
// not exactly T. A nil arr yields the canonical empty view.
func OfAny[T any](arr any) Memory[T] {
	if arr == nil {
		return Memory[T]{}
	}
	buf, ok := arr.([]T)
	if !ok {
		var zero T
		panic(errors.Wrapf(ErrTypeMismatch, "have %T, want []%T", arr, zero))
	}
	return Of(buf)
}

// OfPinned returns a Memory over buf whose Pin operation skips
// allocator registration. The caller attests that buf's memory never
// relocates for the lifetime of the view, as is the case for buffers
// obtained from the arena package.
func OfPinned[T any](buf []T) Memory[T] {
	m := Of(buf)
	m.pinned = m.kind == kindSlice
	return m
}

// OfManager returns a Memory over the first length elements owned by
// m. The length is not checked against the manager until a
// materializing operation, because the manager may legally resize.
func OfManager[T any](m Manager[T], length int) Memory[T] {
	return OfManagerRange(m, 0, length)
}

// OfManagerRange returns a Memory over length elements starting at
// start within the storage owned by m. Negative start or length fails
// immediately; the upper bound is validated lazily.
func OfManagerRange[T any](m Manager[T], start, length int) Memory[T] {
	if m == nil {
		panic("memview: nil manager")
	}
	return Memory[T]{view{
		owner: m,
		off:   checkSize("start", start),
		n:     checkSize("length", length),
		kind:  kindManager,
	}}
}

// OfString returns a read-only view over the bytes of s. The string is
// the owner; no copy is made, and substring rendering stays a direct
// string slice.
func OfString(s string) ReadOnly[byte] {
	if len(s) == 0 {
		return ReadOnly[byte]{}
	}
	return ReadOnly[byte]{view{owner: s, n: checkSize("string length", len(s)), kind: kindText}}
}

// OfUTF8 returns a read-only view over an immutable UTF-8 buffer.
func OfUTF8(u *UTF8String) ReadOnly[UTF8] {
	if u == nil || u.Len() == 0 {
		return ReadOnly[UTF8]{}
	}
	return ReadOnly[UTF8]{view{owner: u, n: checkSize("buffer length", u.Len()), kind: kindUTF8}}
}

// Len returns the number of elements visible through the view.
func (m Memory[T]) Len() int { return int(m.n) }

// IsEmpty reports whether the view has length zero.
func (m Memory[T]) IsEmpty() bool { return m.n == 0 }

// Slice returns a view over length elements starting at start within
// m, sharing the same owner. Panics with ErrOutOfRange when the range
// does not fit in m.
func (m Memory[T]) Slice(start, length int) Memory[T] {
	return Memory[T]{m.view.slice(start, length)}
}

// SliceFrom is Slice(start, m.Len()-start).
func (m Memory[T]) SliceFrom(start int) Memory[T] {
	// slice rejects an invalid start before the length is computed.
	return Memory[T]{m.view.slice(start, int(m.n)-start)}
}

// ReadOnly converts m to its read-only counterpart. The two types
// share the same representation, so this is a flat struct copy.
func (m Memory[T]) ReadOnly() ReadOnly[T] {
	return ReadOnly[T]{m.view}
}

// Span materializes the view into a directly addressable slice of
// exactly Len() elements. The owner is consulted and the view's range
// re-validated on every call; a manager whose reported length shrank
// below the view fails with ErrOutOfRange.
//
// The returned slice aliases the owner's memory. For slice and manager
// owners writes are visible to every other view of the same owner; for
// text and UTF-8 owners the memory is immutable and must not be
// written through the returned slice.
func (m Memory[T]) Span() []T {
	return span[T](m.view)
}

// span is the owner-kind dispatch at the heart of materialization.
// The switch is exhaustive over the legal kinds; anything else means
// the tag or owner was corrupted through unchecked casting and is a
// fatal defect rather than a recoverable error.
func span[T any](v view) []T {
	switch v.kind {
	case kindEmpty:
		return nil

	case kindText:
		if !isElem[byte, T]() {
			panic("memview: text owner with non-byte element type")
		}
		s := v.owner.(string)
		full := unsafe.Slice((*T)(unsafe.Pointer(unsafe.StringData(s))), len(s))
		return checked(full, v)

	case kindUTF8:
		if !isElem[UTF8, T]() {
			panic("memview: utf8 owner with wrong element type")
		}
		b := v.owner.(*UTF8String).bytes()
		full := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), len(b))
		return checked(full, v)

	case kindSlice:
		return checked(v.owner.([]T), v)

	case kindManager:
		return checked(v.owner.(Manager[T]).View(), v)
	}
	panic("memview: unrecognized owner kind " + v.kind.String())
}

// checked re-validates the view's range against the owner length just
// obtained and narrows full to it. The capacity is clipped so the
// result cannot be re-grown into the owner's tail.
func checked[T any](full []T, v view) []T {
	start, n := int(v.off), int(v.n)
	if uint(start) > uint(len(full)) || uint(n) > uint(len(full)-start) {
		panic(errors.Wrapf(ErrOutOfRange, "view [%d:%d) of owner with length %d", start, start+n, len(full)))
	}
	return full[start : start+n : start+n]
}

// Pin returns a handle whose address points at the view's first
// element and is guaranteed stable until the handle is released.
// Pre-pinned slice views compute the address directly with no
// allocator registration; manager views delegate to the manager.
// Pinning an empty view yields a handle with a nil address.
func (m Memory[T]) Pin() Pin {
	return pinView[T](m.view)
}

func pinView[T any](v view) Pin {
	switch v.kind {
	case kindEmpty:
		return Pin{}

	case kindSlice:
		buf := v.owner.([]T)
		if len(buf) == 0 {
			return Pin{}
		}
		base := unsafe.SliceData(buf)
		addr := unsafe.Add(unsafe.Pointer(base), uintptr(v.off)*elemSize[T]())
		if v.pinned {
			return Pin{addr: addr}
		}
		p := newPinner()
		p.Pin(base)
		return NewPin(addr, p.Unpin)

	case kindText:
		s := v.owner.(string)
		if len(s) == 0 {
			return Pin{}
		}
		base := unsafe.StringData(s)
		p := newPinner()
		p.Pin(base)
		return NewPin(unsafe.Add(unsafe.Pointer(base), uintptr(v.off)*elemSize[T]()), p.Unpin)

	case kindUTF8:
		b := v.owner.(*UTF8String).bytes()
		if len(b) == 0 {
			return Pin{}
		}
		base := unsafe.SliceData(b)
		p := newPinner()
		p.Pin(base)
		return NewPin(unsafe.Add(unsafe.Pointer(base), uintptr(v.off)*elemSize[T]()), p.Unpin)

	case kindManager:
		return v.owner.(Manager[T]).Pin(int(v.off))
	}
	panic("memview: unrecognized owner kind " + v.kind.String())
}

// CopyTo copies the view's elements into dst through a materialized
// span of each side. The copy is overlap-safe. Panics with
// ErrOutOfRange when dst is shorter than m.
func (m Memory[T]) CopyTo(dst Memory[T]) {
	if !m.TryCopyTo(dst) {
		panic(errors.Wrapf(ErrOutOfRange, "destination length %d shorter than source length %d", dst.n, m.n))
	}
}

// TryCopyTo is the non-panicking variant of CopyTo. It reports false,
// without touching dst, when dst is shorter than m.
func (m Memory[T]) TryCopyTo(dst Memory[T]) bool {
	if m.n > dst.n {
		return false
	}
	copy(span[T](dst.view), span[T](m.view))
	return true
}

// ToSlice returns the view's elements in a freshly allocated slice.
// This always copies; it is meant for crossing interop boundaries, not
// for routine access.
func (m Memory[T]) ToSlice() []T {
	src := span[T](m.view)
	out := make([]T, len(src))
	copy(out, src)
	return out
}

// Equal reports whether m and o are views of the identical owner with
// identical offset and length. This is identity equality, never
// content comparison: two distinct owners with equal contents compare
// unequal.
func (m Memory[T]) Equal(o Memory[T]) bool {
	return viewEqual[T](m.view, o.view)
}

func viewEqual[T any](a, b view) bool {
	if a.kind != b.kind || a.off != b.off || a.n != b.n {
		return false
	}
	switch a.kind {
	case kindEmpty:
		return true
	case kindSlice:
		x, y := a.owner.([]T), b.owner.([]T)
		return unsafe.SliceData(x) == unsafe.SliceData(y) && len(x) == len(y)
	case kindText:
		x, y := a.owner.(string), b.owner.(string)
		return unsafe.StringData(x) == unsafe.StringData(y) && len(x) == len(y)
	case kindUTF8, kindManager:
		return a.owner == b.owner
	}
	panic("memview: unrecognized owner kind " + a.kind.String())
}

// Hash returns an order-sensitive combination of the owner's identity,
// the offset and the length. Views that are Equal hash identically;
// the empty view hashes to 0.
func (m Memory[T]) Hash() uint64 {
	return viewHash[T](m.view)
}

func viewHash[T any](v view) uint64 {
	if v.kind == kindEmpty {
		return 0
	}
	var word uintptr
	switch v.kind {
	case kindSlice:
		word = uintptr(unsafe.Pointer(unsafe.SliceData(v.owner.([]T))))
	case kindText:
		word = uintptr(unsafe.Pointer(unsafe.StringData(v.owner.(string))))
	case kindUTF8:
		word = uintptr(unsafe.Pointer(v.owner.(*UTF8String)))
	case kindManager:
		if rv := reflect.ValueOf(v.owner); rv.Kind() == reflect.Pointer {
			word = rv.Pointer()
		}
	}
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(word))
	binary.LittleEndian.PutUint32(buf[8:], uint32(v.off))
	binary.LittleEndian.PutUint32(buf[12:], uint32(v.n))
	return xxhash.Sum64(buf[:])
}

// String renders byte views as text and everything else as a
// diagnostic naming the element type and length. A text-owned byte
// view renders as a direct substring of its owner; UTF8 views always
// render through the span, never by reinterpreting the owner as text.
func (m Memory[T]) String() string {
	return viewString[T](m.view, "Memory")
}

func viewString[T any](v view, name string) string {
	var zero T
	switch any(zero).(type) {
	case byte:
		if v.kind == kindText {
			s := v.owner.(string)
			return s[v.off : v.off+v.n]
		}
		return stringOf(span[T](v))
	case UTF8:
		return stringOf(span[T](v))
	default:
		return fmt.Sprintf("memview.%s[%T](%d)", name, zero, v.n)
	}
}

// stringOf copies a byte-sized element span into a string.
func stringOf[T any](sp []T) string {
	b := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(sp))), len(sp))
	return string(b)
}
