package memview

import (
	"testing"
	"unsafe"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/memview/arena"
)

// countingPinner is an allocator test double recording registrations.
type countingPinner struct {
	pins   int
	unpins int
}

func (c *countingPinner) Pin(ptr any) { c.pins++ }
func (c *countingPinner) Unpin()      { c.unpins++ }

// installPinCounter routes pin registrations through a shared counter
// for the duration of the test.
func installPinCounter(t *testing.T) *countingPinner {
	t.Helper()
	c := &countingPinner{}
	old := newPinner
	newPinner = func() Pinner { return c }
	t.Cleanup(func() { newPinner = old })
	return c
}

func TestPinSliceOwner(t *testing.T) {
	c := installPinCounter(t)
	buf := []int32{10, 20, 30, 40, 50}
	m := Of(buf).Slice(1, 3)

	p := m.Pin()
	require.Equal(t, 1, c.pins, "slice owner must register exactly one pin")
	assert.Equal(t, unsafe.Pointer(&buf[1]), p.Addr())
	assert.Equal(t, int32(20), *(*int32)(p.Addr()))

	p.Release()
	assert.Equal(t, 1, c.unpins)
}

func TestPinReleaseIdempotent(t *testing.T) {
	c := installPinCounter(t)
	p := Of([]int32{1, 2, 3}).Pin()

	p.Release()
	p.Release()
	p.Release()
	assert.Equal(t, 1, c.unpins, "repeated Release must unregister exactly once")

	// Copies of the handle share the release state.
	q := Of([]int32{1, 2, 3}).Pin()
	r := q
	q.Release()
	r.Release()
	assert.Equal(t, 2, c.unpins)
}

func TestPinPrePinned(t *testing.T) {
	c := installPinCounter(t)

	a := arena.New(0)
	defer a.Release()
	buf := arena.AllocSliceZeroed[int32](a, 8)
	buf[2] = 77

	m := OfPinned(buf).Slice(2, 4)
	p := m.Pin()

	assert.Zero(t, c.pins, "pre-pinned views must not register with the allocator")
	assert.Equal(t, unsafe.Pointer(&buf[2]), p.Addr())
	assert.Equal(t, int32(77), *(*int32)(p.Addr()))

	p.Release() // no-op, still idempotent
	p.Release()
	assert.Zero(t, c.unpins)
}

func TestPinnedFlagSurvivesSlicing(t *testing.T) {
	c := installPinCounter(t)
	buf := make([]int32, 8)

	m := OfPinned(buf).Slice(1, 6).SliceFrom(2).ReadOnly()
	p := m.Pin()
	defer p.Release()

	assert.Zero(t, c.pins)
	assert.Equal(t, unsafe.Pointer(&buf[3]), p.Addr())
}

func TestPinTextOwner(t *testing.T) {
	c := installPinCounter(t)
	s := "hello"
	ro := OfString(s).Slice(1, 3)

	p := ro.Pin()
	require.Equal(t, 1, c.pins)
	assert.Equal(t, byte('e'), *(*byte)(p.Addr()))

	p.Release()
	assert.Equal(t, 1, c.unpins)
}

func TestPinUTF8Owner(t *testing.T) {
	c := installPinCounter(t)
	ro := OfUTF8(UTF8StringOf("hello")).Slice(4, 1)

	p := ro.Pin()
	require.Equal(t, 1, c.pins)
	assert.Equal(t, byte('o'), *(*byte)(p.Addr()))
	p.Release()
}

func TestPinEmptyView(t *testing.T) {
	c := installPinCounter(t)

	p := Memory[int32]{}.Pin()
	assert.Nil(t, p.Addr())
	p.Release()

	p = Of([]int32{}).Pin()
	assert.Nil(t, p.Addr())

	assert.Zero(t, c.pins)
}

func TestPinManagerDelegation(t *testing.T) {
	c := installPinCounter(t)

	a := arena.New(0)
	defer a.Release()
	mgr := NewArenaManager[int32](a, 8)
	mgr.View()[3] = 42

	m := OfManagerRange[int32](mgr, 3, 2)
	p := m.Pin()

	assert.Zero(t, c.pins, "manager pinning must bypass the allocator entirely")
	assert.Equal(t, int32(42), *(*int32)(p.Addr()))
	p.Release()
}

func TestNewPin(t *testing.T) {
	released := 0
	x := int64(7)
	p := NewPin(unsafe.Pointer(&x), func() { released++ })

	assert.Equal(t, unsafe.Pointer(&x), p.Addr())
	p.Release()
	p.Release()
	assert.Equal(t, 1, released)

	// nil release means a registration-free handle.
	q := NewPin(unsafe.Pointer(&x), nil)
	q.Release()
	assert.Equal(t, unsafe.Pointer(&x), q.Addr())
}

func TestFinalizerReleasesLeakedPin(t *testing.T) {
	var records [][]interface{}
	SetLeakLogger(log.LoggerFunc(func(kv ...interface{}) error {
		records = append(records, kv)
		return nil
	}))
	defer SetLeakLogger(nil)

	released := 0
	st := &pinState{unpin: func() { released++ }}

	// Drive the finalizer directly; GC timing is not deterministic.
	finalizePin(st)
	assert.Equal(t, 1, released)
	require.Len(t, records, 1)

	// A handle that was already released must not be reported again.
	finalizePin(st)
	assert.Equal(t, 1, released)
	assert.Len(t, records, 1)
}
