package metrics

import (
	"sync"
	"sync/atomic"
)

// MetricKey is a strongly typed metric identifier.
type MetricKey string

// Metric keys (centralized)
const (
	// Registry
	MonitorsTotal       MetricKey = "monitors_total"
	ProfilerClearsTotal MetricKey = "profiler_clears_total"

	// Recordings
	RecordingsOpenedTotal    MetricKey = "recordings_opened_total"
	RecordingsSkippedTotal   MetricKey = "recordings_skipped_total"
	RecordingsMergedTotal    MetricKey = "recordings_merged_total"
	RecordingsDiscardedTotal MetricKey = "recordings_discarded_total"
	SnapsCommittedTotal      MetricKey = "snaps_committed_total"

	// Retention
	CullRunsTotal    MetricKey = "cull_runs_total"
	SnapsCulledTotal MetricKey = "snaps_culled_total"
)

// Registry stores all metrics.
type Registry struct {
	mu       sync.RWMutex
	counters map[MetricKey]*int64
}

// NewRegistry creates a metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[MetricKey]*int64),
	}
}

// Inc increments a metric by 1.
func (r *Registry) Inc(key MetricKey) {
	r.Add(key, 1)
}

// Add increments a metric by delta. A nil registry discards the update so
// components can run without self-metrics.
func (r *Registry) Add(key MetricKey, delta int64) {
	if r == nil {
		return
	}

	r.mu.RLock()
	ptr, ok := r.counters[key]
	r.mu.RUnlock()

	if ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	// Slow path: metric not yet initialized
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if ptr, ok = r.counters[key]; ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	var val int64
	r.counters[key] = &val
	atomic.AddInt64(&val, delta)
}

// Get returns the current value of a metric, or 0 if it was never touched.
func (r *Registry) Get(key MetricKey) int64 {
	if r == nil {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ptr, ok := r.counters[key]
	if !ok {
		return 0
	}
	return atomic.LoadInt64(ptr)
}
