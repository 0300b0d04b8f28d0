// Package memview provides bounded, type-safe views over contiguous
// memory without copying it.
//
// # Overview
//
// The central type is Memory[T]: a window (owner, offset, length) onto
// a block of elements whose backing storage may be a slice, an
// immutable string, an immutable UTF-8 buffer, or a pluggable Manager.
// Views are cheap immutable values: slicing is pure arithmetic over
// the same owner, converting to the ReadOnly counterpart is a flat
// struct copy, and the owner is only consulted when a view is
// materialized into a span or pinned to a raw address. This makes the
// type useful wherever ownership of a buffer and access to a portion
// of it need to travel separately:
//
//   - Zero-copy slicing of parse buffers and message payloads
//   - Handing sub-ranges of a buffer to workers without aliasing bugs
//   - Interop with APIs that need a raw, temporarily stable address
//
// # Basic Usage
//
//	buf := []int32{10, 20, 30, 40, 50}
//	m := memview.Of(buf).Slice(1, 3)
//	fmt.Println(m.Span()) // [20 30 40], aliases buf
//
//	ro := memview.OfString("hello").Slice(1, 3)
//	fmt.Println(ro) // "ell", no copy
//
// # Owner kinds
//
// Of, OfFrom, OfRange and OfPinned build slice-backed views. OfString
// and OfUTF8 build read-only views over immutable text. OfManager and
// OfManagerRange defer ownership to a Manager implementation, whose
// reported length is re-validated every time a view over it is
// materialized. The zero Memory/ReadOnly value is the canonical empty
// view.
//
// # Pinning
//
// Pin() returns a handle carrying an address that stays stable until
// the handle is released:
//
//	p := m.Pin()
//	defer p.Release()
//	callC(p.Addr(), m.Len())
//
// Views over arena-allocated buffers (OfPinned) resolve the address
// directly with no registration. Release is idempotent; handles
// dropped without Release are released by a finalizer and can be
// reported via SetLeakLogger.
//
// # Thread Safety
//
// A coherent copy of a view is safe to use from any goroutine, but the
// fields of a single view variable are not updated atomically as a
// unit: writing a view variable in one goroutine while reading it in
// another is a torn read with undefined results. Establish a
// happens-before edge (channel, mutex, atomic pointer) before sharing
// a mutable view variable.
//
// # Important Notes
//
//   - Spans and pinned addresses alias the owner's memory; they are
//     valid only while the owner is.
//   - Equality and Hash are owner identity plus offset and length,
//     never content comparison.
//   - Out-of-range and type-mismatch misuse panics with values
//     classifiable via errors.Is(ErrOutOfRange, ErrTypeMismatch).
package memview
