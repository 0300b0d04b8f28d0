package memview

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/memview/arena"
)

// shrinkManager is a Manager whose reported length can change between
// accesses, exercising the lazy re-validation path.
type shrinkManager struct {
	buf []int32
}

func (m *shrinkManager) View() []int32 { return m.buf }
func (m *shrinkManager) Len() int      { return len(m.buf) }
func (m *shrinkManager) Pin(off int) Pin {
	base := unsafe.Pointer(unsafe.SliceData(m.buf))
	return NewPin(unsafe.Add(base, uintptr(off)*unsafe.Sizeof(int32(0))), nil)
}

func TestArenaManager(t *testing.T) {
	a := arena.New(0)
	defer a.Release()

	mgr := NewArenaManager[int32](a, 5)
	require.Equal(t, 5, mgr.Len())
	copy(mgr.View(), []int32{10, 20, 30, 40, 50})

	m := mgr.Memory()
	assert.Equal(t, []int32{10, 20, 30, 40, 50}, m.Span())
	assert.Equal(t, []int32{20, 30, 40}, m.Slice(1, 3).Span())

	t.Run("pin", func(t *testing.T) {
		p := mgr.Pin(1)
		assert.Equal(t, int32(20), *(*int32)(p.Addr()))
		p.Release()

		requirePanicsIs(t, ErrOutOfRange, func() { mgr.Pin(6) })
		requirePanicsIs(t, ErrOutOfRange, func() { mgr.Pin(-1) })
	})

	t.Run("owner identity", func(t *testing.T) {
		other := NewArenaManager[int32](a, 5)
		assert.True(t, m.Equal(mgr.Memory()))
		assert.False(t, m.Equal(other.Memory()))
		assert.NotZero(t, m.Hash())
	})
}

func TestOfManagerConstruction(t *testing.T) {
	mgr := &shrinkManager{buf: make([]int32, 5)}

	t.Run("negative length fails immediately", func(t *testing.T) {
		requirePanicsIs(t, ErrOutOfRange, func() { OfManager[int32](mgr, -1) })
		requirePanicsIs(t, ErrOutOfRange, func() { OfManagerRange[int32](mgr, -1, 2) })
	})

	t.Run("upper bound is not checked at construction", func(t *testing.T) {
		m := OfManager[int32](mgr, 10) // larger than the manager holds
		assert.Equal(t, 10, m.Len())
		requirePanicsIs(t, ErrOutOfRange, func() { m.Span() })
	})

	t.Run("nil manager", func(t *testing.T) {
		assert.Panics(t, func() { OfManager[int32](nil, 1) })
	})
}

func TestManagerLengthRevalidatedLazily(t *testing.T) {
	mgr := &shrinkManager{buf: []int32{1, 2, 3, 4, 5}}
	m := OfManagerRange[int32](mgr, 1, 3)

	require.Equal(t, []int32{2, 3, 4}, m.Span())

	// The owner shrinks underneath the view; the next materialization
	// must notice instead of reading stale bounds.
	mgr.buf = mgr.buf[:2]
	requirePanicsIs(t, ErrOutOfRange, func() { m.Span() })

	// Growing back makes the same view valid again.
	mgr.buf = []int32{9, 8, 7, 6}
	assert.Equal(t, []int32{8, 7, 6}, m.Span())
}
