package memview

import "unsafe"

// UTF8 is the element type that opts a byte view into textual
// interpretation. Views over UTF8 render as text but are never
// reinterpreted as a string owner, keeping the binary/text distinction
// explicit.
type UTF8 byte

// UTF8String is an immutable UTF-8 byte buffer usable as the backing
// owner of a ReadOnly[UTF8]. The constructor copies its input, so the
// buffer cannot be mutated behind the views that share it.
type UTF8String struct {
	b []byte
}

// NewUTF8String copies b into a new immutable buffer.
func NewUTF8String(b []byte) *UTF8String {
	u := &UTF8String{b: make([]byte, len(b))}
	copy(u.b, b)
	return u
}

// UTF8StringOf builds an immutable buffer holding the bytes of s.
func UTF8StringOf(s string) *UTF8String {
	return &UTF8String{b: []byte(s)}
}

// Len returns the buffer length in bytes.
func (u *UTF8String) Len() int { return len(u.b) }

func (u *UTF8String) String() string { return string(u.b) }

// bytes exposes the backing storage to the view machinery. Callers
// must not write through the result.
func (u *UTF8String) bytes() []byte { return u.b }

// isElem reports whether the view element type T is exactly E.
// The textual owner kinds are legal only for specific element types;
// this is how that legality is derived purely from T.
func isElem[E, T any]() bool {
	var zero T
	_, ok := any(zero).(E)
	return ok
}

// elemSize returns unsafe.Sizeof(T) as a uintptr.
func elemSize[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}
