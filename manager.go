package memview

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/pavanmanishd/memview/arena"
)

// Manager is the capability contract a custom allocator implements to
// own the memory behind a view. Implementations must honor the same
// bounds semantics as slices: View's length is the single source of
// truth at materialization time, and Pin(off) must fail for off
// outside [0, Len]. Implementations should be pointer-typed so view
// equality and hashing can use their identity.
type Manager[T any] interface {
	// View returns the current backing storage as a slice. The
	// reported length may shrink or grow between calls; views
	// re-validate against it on every materialization.
	View() []T

	// Pin returns a handle whose address points off elements into the
	// backing storage and stays stable until the handle is released.
	Pin(off int) Pin

	// Len reports the current logical length.
	Len() int
}

// ArenaManager is a Manager backed by a fixed region carved out of an
// Arena. Arena memory never relocates while the arena is live, so its
// Pin handles carry no release obligation beyond keeping the arena
// alive.
type ArenaManager[T any] struct {
	buf []T
}

// NewArenaManager allocates a zeroed region of n elements from a.
func NewArenaManager[T any](a *arena.Arena, n int) *ArenaManager[T] {
	return &ArenaManager[T]{buf: arena.AllocSliceZeroed[T](a, n)}
}

// View implements Manager.
func (m *ArenaManager[T]) View() []T { return m.buf }

// Len implements Manager.
func (m *ArenaManager[T]) Len() int { return len(m.buf) }

// Pin implements Manager. The address is computed directly; arena
// memory is already non-relocatable.
func (m *ArenaManager[T]) Pin(off int) Pin {
	if uint(off) > uint(len(m.buf)) {
		panic(errors.Wrapf(ErrOutOfRange, "pin offset %d of manager with length %d", off, len(m.buf)))
	}
	base := unsafe.Pointer(unsafe.SliceData(m.buf))
	return NewPin(unsafe.Add(base, uintptr(off)*elemSize[T]()), nil)
}

// Memory returns a view over the manager's whole region.
func (m *ArenaManager[T]) Memory() Memory[T] {
	return OfManager[T](m, len(m.buf))
}
