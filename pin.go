package memview

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/go-kit/log"
	"go.uber.org/atomic"
)

// Pinner blocks relocation of the objects registered with it until
// Unpin. *runtime.Pinner satisfies it; tests substitute counting
// doubles via the newPinner hook.
type Pinner interface {
	Pin(ptr any)
	Unpin()
}

// newPinner produces the allocator collaborator used for pin
// registration. One Pinner is created per Pin handle.
var newPinner = func() Pinner { return new(runtime.Pinner) }

// Pin is a handle to a view whose address is stable until Release.
// The zero Pin has a nil address and a no-op Release.
type Pin struct {
	addr unsafe.Pointer
	st   *pinState
}

type pinState struct {
	released atomic.Bool
	unpin    func()
}

// NewPin builds a handle from a raw address and a release function.
// Manager implementations use it to hand back their own handles;
// release may be nil when the underlying memory never relocates.
func NewPin(addr unsafe.Pointer, release func()) Pin {
	if release == nil {
		return Pin{addr: addr}
	}
	return Pin{addr: addr, st: newPinState(release)}
}

// Addr returns the pinned address. It is valid until Release; after
// Release the memory may relocate at any time.
func (p Pin) Addr() unsafe.Pointer { return p.addr }

// Release ends the address-stability guarantee. Idempotent: the
// underlying pin registration is undone exactly once no matter how
// many copies of the handle are released, or how many times.
func (p Pin) Release() {
	st := p.st
	if st == nil {
		return
	}
	if st.released.CompareAndSwap(false, true) {
		runtime.SetFinalizer(st, nil)
		st.unpin()
	}
}

func newPinState(unpin func()) *pinState {
	st := &pinState{unpin: unpin}
	runtime.SetFinalizer(st, finalizePin)
	return st
}

// finalizePin runs when a Pin handle is dropped without Release. The
// registration is undone so the owner does not stay unrelocatable for
// the rest of the process lifetime, and the leak is reported.
func finalizePin(st *pinState) {
	if !st.released.CompareAndSwap(false, true) {
		return
	}
	leakMu.Lock()
	logger := leakLogger
	leakMu.Unlock()
	logger.Log("msg", "pin handle dropped without Release; released by finalizer")
	st.unpin()
}

var (
	leakMu     sync.Mutex
	leakLogger log.Logger = log.NewNopLogger()
)

// SetLeakLogger installs the logger used to report Pin handles that
// were garbage collected without being released. The default logger
// discards the reports. Passing nil restores the default.
func SetLeakLogger(l log.Logger) {
	if l == nil {
		l = log.NewNopLogger()
	}
	leakMu.Lock()
	leakLogger = l
	leakMu.Unlock()
}
