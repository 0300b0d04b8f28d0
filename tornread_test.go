//go:build raceharness

package memview

import (
	"testing"
	"time"
)

// TestTornReadHazard exercises the documented hazard: a view variable
// written by one goroutine while read by another may be observed as an
// inconsistent mix of fields. It exists to demonstrate the hazard,
// not to assert it away, and is excluded from the default suite.
// Run with: go test -tags raceharness -run TornRead
// (the race detector is expected to flag this test).
func TestTornReadHazard(t *testing.T) {
	short := Of(make([]byte, 4))
	long := Of(make([]byte, 1<<16)).Slice(64, 1<<12)

	var shared = short
	stop := make(chan struct{})

	go func() {
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i&1 == 0 {
				shared = short
			} else {
				shared = long
			}
		}
	}()

	var reads, panics int
	deadline := time.After(500 * time.Millisecond)
loop:
	for {
		select {
		case <-deadline:
			break loop
		default:
		}
		func() {
			defer func() {
				if recover() != nil {
					panics++
				}
			}()
			v := shared // unsynchronized read; may tear
			_ = v.Span()
			reads++
		}()
	}
	close(stop)

	t.Logf("unsynchronized reads: %d, out-of-range panics from torn views: %d", reads, panics)
}
