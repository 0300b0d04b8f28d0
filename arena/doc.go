// Package arena implements a block-based bump allocator with stable
// addresses, used as the pre-pinned backing store for memview.
//
// # Overview
//
// The arena allocates memory in large blocks and hands out portions of
// those blocks on demand. Every buffer keeps its address for the
// lifetime of the arena, so views constructed over arena memory can be
// pre-pinned: taking their address never needs a pin registration.
// Beyond memview, the usual arena trade-offs apply:
//
//   - Request-scoped allocation with O(1) batch cleanup via Reset
//   - Reduced garbage collection pressure
//   - Predictable allocation cost
//
// # Basic Usage
//
//	a := arena.New(0) // default block size
//	defer a.Release()
//
//	buf := arena.AllocSlice[int32](a, 1024)
//	view := memview.OfPinned(buf) // Pin() is registration-free
//
//	a.Reset() // O(1) reuse; outstanding buffers are clobbered
//
// # Thread Safety
//
// Arena is not thread-safe. SafeArena wraps every operation in a
// mutex:
//
//	s := arena.NewSafe(0)
//	defer s.Release()
//	buf := arena.SafeAllocSlice[byte](s, 512)
//
// # Monitoring
//
// Metrics() returns a snapshot of usage counters, and NewCollector
// adapts an arena to a prometheus.Collector for scraping long-lived
// arenas:
//
//	reg.MustRegister(arena.NewCollector(s, "scratch"))
//
// # Important Notes
//
//   - Buffers are only valid while the arena is live; Release ends the
//     address-stability guarantee.
//   - No individual deallocation; use Reset or Release.
//   - Memory is not zeroed unless the Zeroed variants are used.
//   - All allocations are pointer-aligned.
package arena
