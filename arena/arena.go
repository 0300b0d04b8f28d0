// Package arena implements a block-based bump allocator whose
// allocations never move. Buffers handed out by an Arena keep their
// address for the lifetime of the arena, which makes them valid
// backing storage for pre-pinned views (memview.OfPinned).
package arena

import "unsafe"

// DefaultBlockSize is the default block size for new arenas (64 KiB).
const DefaultBlockSize = 1 << 16

// block is a single backing buffer within an arena.
type block struct {
	buf  []byte  // backing memory
	next uintptr // bump offset of the next allocation
}

// Arena is a block-based bump allocator. Memory obtained from an Arena
// stays at a fixed address until Release. Not goroutine-safe; use
// SafeArena for concurrent access.
type Arena struct {
	blocks    []block
	blockSize int
	active    *block
}

// New creates an Arena with the given block size.
// If blockSize <= 0, DefaultBlockSize is used.
func New(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	a := &Arena{blockSize: blockSize}
	a.grow(blockSize)
	return a
}

// AllocBytes returns an n-byte slice carved out of the arena.
// The slice is valid until Release; Reset reuses its memory.
// Returns nil if n <= 0.
func (a *Arena) AllocBytes(n int) []byte {
	if n <= 0 {
		return nil
	}

	// Fast path: bump within the active block.
	if b := a.active; b != nil {
		off := alignUp(b.next)
		if off+uintptr(n) <= uintptr(len(b.buf)) {
			b.next = off + uintptr(n)
			return unsafe.Slice((*byte)(unsafe.Pointer(&b.buf[off])), n)
		}
	}
	return a.allocSlow(n)
}

func (a *Arena) allocSlow(n int) []byte {
	a.mustBeLive()
	a.grow(n)

	b := a.active
	off := alignUp(b.next)
	b.next = off + uintptr(n)
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.buf[off])), n)
}

// Reserve makes sure the active block has at least n free bytes,
// growing the arena with a fresh block if it does not.
func (a *Arena) Reserve(n int) {
	a.mustBeLive()
	b := a.active
	if b == nil {
		a.grow(n)
		return
	}
	if alignUp(b.next)+uintptr(n) > uintptr(len(b.buf)) {
		a.grow(n)
	}
}

// Reset rewinds every block's bump offset to zero, keeping the blocks
// for reuse. O(number of blocks). Buffers previously handed out are
// clobbered by subsequent allocations; any views still holding them
// must be considered dead.
func (a *Arena) Reset() {
	a.mustBeLive()
	for i := range a.blocks {
		a.blocks[i].next = 0
	}
	a.active = &a.blocks[0]
}

// Release drops every block and makes the arena unusable. Addresses of
// previously returned buffers are no longer guaranteed stable once the
// blocks become collectable. Any later operation panics.
func (a *Arena) Release() {
	a.blocks = nil
	a.active = nil
}

// grow appends a block of at least min bytes and makes it active.
func (a *Arena) grow(min int) {
	size := a.blockSize
	if min > size {
		size = min
	}
	a.blocks = append(a.blocks, block{buf: make([]byte, size)})
	a.active = &a.blocks[len(a.blocks)-1]
}

func (a *Arena) mustBeLive() {
	if a.blocks == nil {
		panic("arena: use after Release()")
	}
}

// alignUp rounds off up to pointer-size alignment.
func alignUp(off uintptr) uintptr {
	const mask = unsafe.Sizeof(uintptr(0)) - 1
	return (off + mask) & ^mask
}
