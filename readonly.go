package memview

import "github.com/pkg/errors"

// ReadOnly is the read-only counterpart of Memory. It shares the same
// representation, so converting between the two is a flat struct copy;
// what it removes is the ability to obtain a writable span. Text and
// UTF-8 owned views exist only in this form unless explicitly cast
// back with AsMutable.
type ReadOnly[T any] struct {
	view
}

// AsMutable reinterprets r as a writable Memory carrying the identical
// owner, offset and length. This is an escape hatch for interop: for
// text and UTF-8 owners the underlying memory is still immutable, and
// writing through the resulting spans is undefined behavior.
func AsMutable[T any](r ReadOnly[T]) Memory[T] {
	return Memory[T]{r.view}
}

// Len returns the number of elements visible through the view.
func (r ReadOnly[T]) Len() int { return int(r.n) }

// IsEmpty reports whether the view has length zero.
func (r ReadOnly[T]) IsEmpty() bool { return r.n == 0 }

// Slice returns a read-only view over length elements starting at
// start within r, sharing the same owner.
func (r ReadOnly[T]) Slice(start, length int) ReadOnly[T] {
	return ReadOnly[T]{r.view.slice(start, length)}
}

// SliceFrom is Slice(start, r.Len()-start).
func (r ReadOnly[T]) SliceFrom(start int) ReadOnly[T] {
	return ReadOnly[T]{r.view.slice(start, int(r.n)-start)}
}

// At returns the element at index i. Panics with ErrOutOfRange when i
// is outside the view.
func (r ReadOnly[T]) At(i int) T {
	if uint(i) >= uint(int(r.n)) {
		panic(errors.Wrapf(ErrOutOfRange, "index %d of view with length %d", i, r.n))
	}
	return span[T](r.view)[i]
}

// CopyTo copies the view's elements into dst. Panics with
// ErrOutOfRange when dst is shorter than r.
func (r ReadOnly[T]) CopyTo(dst Memory[T]) {
	if !r.TryCopyTo(dst) {
		panic(errors.Wrapf(ErrOutOfRange, "destination length %d shorter than source length %d", dst.n, r.n))
	}
}

// TryCopyTo is the non-panicking variant of CopyTo. It reports false,
// without touching dst, when dst is shorter than r.
func (r ReadOnly[T]) TryCopyTo(dst Memory[T]) bool {
	if r.n > dst.n {
		return false
	}
	copy(span[T](dst.view), span[T](r.view))
	return true
}

// ToSlice returns the view's elements in a freshly allocated slice.
func (r ReadOnly[T]) ToSlice() []T {
	src := span[T](r.view)
	out := make([]T, len(src))
	copy(out, src)
	return out
}

// Pin returns a handle whose address points at the view's first
// element and is stable until released. The memory behind the address
// must be treated as read-only.
func (r ReadOnly[T]) Pin() Pin {
	return pinView[T](r.view)
}

// Equal reports whether r and o are views of the identical owner with
// identical offset and length. A ReadOnly compares equal to the
// conversion of any Memory carrying the same fields.
func (r ReadOnly[T]) Equal(o ReadOnly[T]) bool {
	return viewEqual[T](r.view, o.view)
}

// Hash returns the same value as the Hash of a Memory carrying
// identical fields; the empty view hashes to 0.
func (r ReadOnly[T]) Hash() uint64 {
	return viewHash[T](r.view)
}

// String renders like Memory.String.
func (r ReadOnly[T]) String() string {
	return viewString[T](r.view, "ReadOnly")
}
