package memview

import (
	"math"

	"github.com/pkg/errors"
)

// Sentinel errors carried as panic values by operations that detect a
// precondition violation. Recovering code can classify them with
// errors.Is.
var (
	// ErrOutOfRange reports an offset, start, or length outside the
	// bounds of the view or its owner.
	ErrOutOfRange = errors.New("memview: range out of bounds")

	// ErrTypeMismatch reports a runtime-typed construction whose
	// buffer's concrete element type is not the view's element type.
	ErrTypeMismatch = errors.New("memview: element type mismatch")
)

// ownerKind tags which backing storage a view refers to. The owner
// field alone cannot distinguish the kinds without type introspection;
// the tag keeps dispatch closed and exhaustive.
type ownerKind uint8

const (
	kindEmpty ownerKind = iota // owner == nil
	kindSlice                  // owner is []T
	kindText                   // owner is string, element type byte
	kindUTF8                   // owner is *UTF8String, element type UTF8
	kindManager                // owner is Manager[T]
)

func (k ownerKind) String() string {
	switch k {
	case kindEmpty:
		return "empty"
	case kindSlice:
		return "slice"
	case kindText:
		return "text"
	case kindUTF8:
		return "utf8"
	case kindManager:
		return "manager"
	}
	return "unknown"
}

// view is the representation shared by Memory and ReadOnly. The two
// public types are flat wrappers around it, so converting between them
// is a plain struct copy with no allocation.
//
// Invariants: off >= 0 and n >= 0 always; kind == kindEmpty implies
// owner == nil, off == 0 and n == 0. off and n are not re-checked
// against the owner until a materializing operation, because a
// manager's reported length may change between accesses.
type view struct {
	owner  any
	off    int32
	n      int32
	kind   ownerKind
	pinned bool // slice owner attested non-relocatable
}

// slice narrows v to [start, start+length). Pure arithmetic: the owner
// is not consulted. The unsigned comparisons reject negative inputs
// along with overlong ones in a single test each.
func (v view) slice(start, length int) view {
	if uint(start) > uint(int(v.n)) {
		panic(errors.Wrapf(ErrOutOfRange, "slice start %d of view with length %d", start, v.n))
	}
	if uint(length) > uint(int(v.n)-start) {
		panic(errors.Wrapf(ErrOutOfRange, "slice length %d at start %d of view with length %d", length, start, v.n))
	}
	v.off += int32(start)
	v.n = int32(length)
	return v
}

// checkSize guards the int32 representation at construction time.
func checkSize(what string, x int) int32 {
	if x < 0 || x > math.MaxInt32 {
		panic(errors.Wrapf(ErrOutOfRange, "%s %d outside int32 range", what, x))
	}
	return int32(x)
}
