package arena

import "sync"

// SafeArena is a mutex-protected wrapper around Arena for concurrent
// use. Address stability of returned buffers is the same as Arena's.
type SafeArena struct {
	mu sync.Mutex
	a  *Arena
}

// NewSafe creates a thread-safe arena with the given block size.
// If blockSize <= 0, DefaultBlockSize is used.
func NewSafe(blockSize int) *SafeArena {
	return &SafeArena{a: New(blockSize)}
}

// AllocBytes allocates n bytes under the lock. Returns nil if n <= 0.
func (s *SafeArena) AllocBytes(n int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.AllocBytes(n)
}

// Reserve ensures the active block has at least n free bytes.
func (s *SafeArena) Reserve(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Reserve(n)
}

// Reset rewinds allocation offsets to zero for arena reuse.
func (s *SafeArena) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Reset()
}

// Release drops all blocks and makes the arena unusable.
func (s *SafeArena) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Release()
}

// SafeAlloc returns a pointer to a zeroed T stored inside the arena.
func SafeAlloc[T any](s *SafeArena) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Alloc[T](s.a)
}

// SafeAllocSlice allocates a slice of n elements of type T.
func SafeAllocSlice[T any](s *SafeArena, n int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocSlice[T](s.a, n)
}

// SafeAllocSliceZeroed allocates a slice of n zeroed elements of type T.
func SafeAllocSliceZeroed[T any](s *SafeArena, n int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocSliceZeroed[T](s.a, n)
}
