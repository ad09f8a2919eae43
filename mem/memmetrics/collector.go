// Package memmetrics exports allocator statistics as Prometheus metrics.
//
// A Collector reads snapshots on every scrape. Allocators are not
// thread-safe, so gather only while no one else is using the registered
// arenas and tracking wrappers.
package memmetrics

import (
	"io"
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/joshuapare/memkit/mem"
	"github.com/joshuapare/memkit/mem/arena"
)

// ArenaSource is satisfied by *arena.Arena.
type ArenaSource interface {
	Metrics() arena.Metrics
}

// TrackingSource is satisfied by *mem.Tracking.
type TrackingSource interface {
	Stats() mem.TrackingStats
}

var (
	arenaBytesDesc = prometheus.NewDesc(
		"memkit_arena_bytes",
		"Arena size in bytes by state (used, peak, capacity).",
		[]string{"arena", "state"},
		nil,
	)
	arenaOpsDesc = prometheus.NewDesc(
		"memkit_arena_operations_total",
		"Arena operations by kind (push, pop, failure).",
		[]string{"arena", "op"},
		nil,
	)
	allocBytesDesc = prometheus.NewDesc(
		"memkit_allocator_bytes",
		"Bytes handed out by a tracked allocator by state (live, peak).",
		[]string{"allocator", "state"},
		nil,
	)
	allocOpsDesc = prometheus.NewDesc(
		"memkit_allocator_operations_total",
		"Calls into a tracked allocator by kind.",
		[]string{"allocator", "op"},
		nil,
	)
)

// Collector is a prometheus.Collector over named arenas and tracking
// allocators.
type Collector struct {
	arenas   map[string]ArenaSource
	trackers map[string]TrackingSource
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{
		arenas:   make(map[string]ArenaSource),
		trackers: make(map[string]TrackingSource),
	}
}

// AddArena registers an arena under name, replacing any previous one.
func (c *Collector) AddArena(name string, a ArenaSource) {
	c.arenas[name] = a
}

// AddTracking registers a tracking allocator under name.
func (c *Collector) AddTracking(name string, t TrackingSource) {
	c.trackers[name] = t
}

func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- arenaBytesDesc
	descs <- arenaOpsDesc
	descs <- allocBytesDesc
	descs <- allocOpsDesc
}

func (c *Collector) Collect(m chan<- prometheus.Metric) {
	for _, name := range slices.Sorted(maps.Keys(c.arenas)) {
		s := c.arenas[name].Metrics()
		gauge(m, arenaBytesDesc, float64(s.Len), name, "used")
		gauge(m, arenaBytesDesc, float64(s.Peak), name, "peak")
		gauge(m, arenaBytesDesc, float64(s.Cap), name, "capacity")
		counter(m, arenaOpsDesc, s.Pushes, name, "push")
		counter(m, arenaOpsDesc, s.Pops, name, "pop")
		counter(m, arenaOpsDesc, s.Failures, name, "failure")
	}

	for _, name := range slices.Sorted(maps.Keys(c.trackers)) {
		s := c.trackers[name].Stats()
		gauge(m, allocBytesDesc, float64(s.LiveBytes), name, "live")
		gauge(m, allocBytesDesc, float64(s.PeakBytes), name, "peak")
		counter(m, allocOpsDesc, s.Allocations, name, "allocate")
		counter(m, allocOpsDesc, s.Failures, name, "allocate_failure")
		counter(m, allocOpsDesc, s.Deallocations, name, "deallocate")
		counter(m, allocOpsDesc, s.Retained, name, "deallocate_retained")
		counter(m, allocOpsDesc, s.GrowAttempts, name, "grow_attempt")
		counter(m, allocOpsDesc, s.Grows, name, "grow")
		counter(m, allocOpsDesc, s.ShrinkAttempts, name, "shrink_attempt")
		counter(m, allocOpsDesc, s.Shrinks, name, "shrink")
	}
}

func gauge(m chan<- prometheus.Metric, desc *prometheus.Desc, v float64, labels ...string) {
	m <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, v, labels...)
}

func counter(m chan<- prometheus.Metric, desc *prometheus.Desc, v int, labels ...string) {
	m <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v), labels...)
}

// WriteText gathers g and writes every family in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// Compile-time interface checks
var (
	_ prometheus.Collector = (*Collector)(nil)
	_ ArenaSource          = (*arena.Arena)(nil)
	_ TrackingSource       = (*mem.Tracking[mem.GlobalAllocator])(nil)
)
