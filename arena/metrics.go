package arena

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
)

// SizeInUse returns the number of bytes currently handed out,
// including internal fragmentation from alignment.
func (a *Arena) SizeInUse() int {
	sum := 0
	for _, b := range a.blocks {
		sum += int(b.next)
	}
	return sum
}

// NumBlocks returns the number of blocks the arena holds.
func (a *Arena) NumBlocks() int {
	return len(a.blocks)
}

// Capacity returns the total capacity in bytes across all blocks.
func (a *Arena) Capacity() int {
	sum := 0
	for _, b := range a.blocks {
		sum += len(b.buf)
	}
	return sum
}

// Utilization returns the ratio of bytes in use to capacity (0.0-1.0).
func (a *Arena) Utilization() float64 {
	c := a.Capacity()
	if c == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(c)
}

// BlockSize returns the default block size used by this arena.
func (a *Arena) BlockSize() int {
	return a.blockSize
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() Metrics {
	return Metrics{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumBlocks:   a.NumBlocks(),
		BlockSize:   a.blockSize,
		Utilization: a.Utilization(),
	}
}

// Metrics is a point-in-time snapshot of arena statistics.
type Metrics struct {
	SizeInUse   int     // bytes currently allocated
	Capacity    int     // total capacity in bytes
	NumBlocks   int     // number of blocks
	BlockSize   int     // default block size
	Utilization float64 // used / capacity, 0.0-1.0
}

func (m Metrics) String() string {
	return fmt.Sprintf("arena: %s of %s in use (%.1f%%) across %d block(s)",
		humanize.IBytes(uint64(m.SizeInUse)), humanize.IBytes(uint64(m.Capacity)),
		m.Utilization*100, m.NumBlocks)
}

// SizeInUse returns the bytes currently handed out, under the lock.
func (s *SafeArena) SizeInUse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.SizeInUse()
}

// NumBlocks returns the number of blocks, under the lock.
func (s *SafeArena) NumBlocks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.NumBlocks()
}

// Capacity returns the total block capacity, under the lock.
func (s *SafeArena) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Capacity()
}

// Utilization returns used/capacity, under the lock.
func (s *SafeArena) Utilization() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Utilization()
}

// Metrics returns a snapshot of arena statistics, under the lock.
func (s *SafeArena) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Metrics()
}

// snapshotter is the subset of Arena/SafeArena the Collector reads.
type snapshotter interface {
	Metrics() Metrics
}

// Collector exports arena statistics as prometheus gauges. Register it
// with a prometheus.Registerer to scrape a long-lived arena:
//
//	reg.MustRegister(arena.NewCollector(a, "ingest_scratch"))
type Collector struct {
	src       snapshotter
	sizeInUse *prometheus.Desc
	capacity  *prometheus.Desc
	numBlocks *prometheus.Desc
}

// NewCollector builds a Collector for a (an *Arena or *SafeArena; for
// a plain Arena the caller must guarantee scrapes do not race with
// allocation). name distinguishes multiple arenas in one registry.
func NewCollector(a snapshotter, name string) *Collector {
	labels := prometheus.Labels{"arena": name}
	return &Collector{
		src: a,
		sizeInUse: prometheus.NewDesc("arena_size_in_use_bytes",
			"Bytes currently allocated from the arena.", nil, labels),
		capacity: prometheus.NewDesc("arena_capacity_bytes",
			"Total capacity of all arena blocks.", nil, labels),
		numBlocks: prometheus.NewDesc("arena_blocks",
			"Number of blocks held by the arena.", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sizeInUse
	ch <- c.capacity
	ch <- c.numBlocks
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.src.Metrics()
	ch <- prometheus.MustNewConstMetric(c.sizeInUse, prometheus.GaugeValue, float64(m.SizeInUse))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity))
	ch <- prometheus.MustNewConstMetric(c.numBlocks, prometheus.GaugeValue, float64(m.NumBlocks))
}
