package profiler

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"corvid-debug/internal/logs"
	"corvid-debug/internal/metrics"

	"go.uber.org/zap"
)

// DefaultMaxSnapshots is the retention bound of a new monitor.
const DefaultMaxSnapshots = 100

// Monitor is an ordered history of snaps for one named metric.
//
// Design principles:
// - One RWMutex guards history and frame state; it is never held while
//   measured code runs.
// - At most one recording is opened per frame (see Record).
// - The retention bound is only applied by an explicit Cull.
type Monitor struct {
	name    string
	logger  *logs.Logger
	metrics *metrics.Registry

	mu           sync.RWMutex
	snaps        []Snap
	maxSnapshots int

	// open is set by Record and reset by NewFrame.
	open bool
	// frame counts NewFrame calls; recordings remember the frame they started in.
	frame uint64
	// committed reports that frameSnap holds the snap opened this frame.
	committed bool
	frameSnap int
}

// MonitorOption configures a Monitor built by NewMonitor.
type MonitorOption func(*Monitor)

// WithMaxSnapshots overrides DefaultMaxSnapshots.
func WithMaxSnapshots(n int) MonitorOption {
	return func(m *Monitor) { m.maxSnapshots = clampBound(n) }
}

// WithMonitorLogger attaches a logger.
func WithMonitorLogger(l *logs.Logger) MonitorOption {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMonitorMetrics attaches a self-metrics registry.
func WithMonitorMetrics(r *metrics.Registry) MonitorOption {
	return func(m *Monitor) { m.metrics = r }
}

// NewMonitor creates an empty monitor.
func NewMonitor(name string, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		name:         name,
		logger:       logs.Nop(),
		maxSnapshots: DefaultMaxSnapshots,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Name returns the monitor's identity.
func (m *Monitor) Name() string {
	return m.name
}

// Record opens the recording for the current frame.
//
// It returns nil when a recording was already opened this frame. That is a
// normal outcome: the caller skips measuring, or uses Continue once the
// frame's snap is committed.
func (m *Monitor) Record() *Recording {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open {
		m.metrics.Inc(metrics.RecordingsSkippedTotal)
		return nil
	}

	m.open = true
	m.committed = false
	m.metrics.Inc(metrics.RecordingsOpenedTotal)

	return newRecording(m, m.frame, true)
}

// Continue returns a recording whose elapsed time is added to the snap
// committed this frame. It returns nil until Record's recording for the
// current frame has been stopped.
func (m *Monitor) Continue() *Recording {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.open || !m.committed {
		return nil
	}
	return newRecording(m, m.frame, false)
}

// Measure runs fn inside a recording. recorded is false when a recording was
// already opened this frame; fn still runs, unmeasured. The duration is
// committed on every exit path, including a panic in fn.
func (m *Monitor) Measure(fn func() error) (recorded bool, err error) {
	rec := m.Record()
	if rec == nil {
		return false, fn()
	}
	defer rec.Stop()
	return true, fn()
}

// commit appends an opener's snap.
func (m *Monitor) commit(s Snap, frame uint64) {
	m.mu.Lock()
	m.snaps = append(m.snaps, s)
	if frame == m.frame && m.open {
		m.committed = true
		m.frameSnap = len(m.snaps) - 1
	}
	m.mu.Unlock()

	m.metrics.Inc(metrics.SnapsCommittedTotal)
}

// merge adds s onto the snap committed in frame. It reports false when that
// snap is gone (frame advanced, culled, or cleared).
func (m *Monitor) merge(s Snap, frame uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame != m.frame || !m.committed || m.frameSnap >= len(m.snaps) {
		return false
	}
	m.snaps[m.frameSnap].Duration += s.Duration
	return true
}

// NewFrame permits the next Record to open a new snap.
func (m *Monitor) NewFrame() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.open = false
	m.committed = false
	m.frame++
}

// Average returns the arithmetic mean of all retained durations.
func (m *Monitor) Average() (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.snaps) == 0 {
		return 0, ErrNoData
	}

	var total float64
	for _, s := range m.snaps {
		total += s.Duration
	}
	return total / float64(len(m.snaps)), nil
}

// Percentile returns the duration at floor(p*count) of the sorted history.
// p must be within [0, 1]; p == 1 yields the maximum.
func (m *Monitor) Percentile(p float64) (float64, error) {
	if !validPercentile(p) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidPercentile, p)
	}

	sorted := m.sortedDurations()
	if len(sorted) == 0 {
		return 0, ErrNoData
	}
	return percentileOf(sorted, p), nil
}

func validPercentile(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// percentileOf expects a non-empty ascending slice.
func percentileOf(sorted []float64, p float64) float64 {
	idx := int(math.Floor(p * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func (m *Monitor) sortedDurations() []float64 {
	m.mu.RLock()
	out := make([]float64, len(m.snaps))
	for i, s := range m.snaps {
		out[i] = s.Duration
	}
	m.mu.RUnlock()

	sort.Float64s(out)
	return out
}

// Iter returns an iterator over a point-in-time copy of the history.
func (m *Monitor) Iter() *Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := make([]Snap, len(m.snaps))
	copy(snaps, m.snaps)
	return &Iterator{snaps: snaps}
}

// Len returns the number of retained snaps.
func (m *Monitor) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.snaps)
}

// Latest returns the most recently appended snap.
func (m *Monitor) Latest() (Snap, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.snaps) == 0 {
		return Snap{}, false
	}
	return m.snaps[len(m.snaps)-1], true
}

// MaxSnapshots returns the retention bound used by CullToMax.
func (m *Monitor) MaxSnapshots() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.maxSnapshots
}

// SetMaxSnapshots changes the retention bound. It does not cull.
func (m *Monitor) SetMaxSnapshots(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.maxSnapshots = clampBound(n)
}

// Cull truncates the history to its first bound entries. The oldest snaps are
// kept; the most recent ones beyond the bound are dropped. It returns the
// number of snaps removed.
func (m *Monitor) Cull(bound int) int {
	bound = clampBound(bound)

	m.mu.Lock()
	removed := len(m.snaps) - bound
	if removed <= 0 {
		m.mu.Unlock()
		return 0
	}

	kept := make([]Snap, bound)
	copy(kept, m.snaps)
	m.snaps = kept
	if m.frameSnap >= bound {
		m.committed = false
	}
	m.mu.Unlock()

	m.metrics.Add(metrics.SnapsCulledTotal, int64(removed))
	m.logger.Debug("monitor culled",
		zap.String("monitor", m.name),
		zap.Int("removed", removed),
		zap.Int("kept", bound),
	)
	return removed
}

// CullToMax culls to the monitor's own retention bound.
func (m *Monitor) CullToMax() int {
	return m.Cull(m.MaxSnapshots())
}

// Clear empties the history.
func (m *Monitor) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snaps = nil
	m.committed = false
}

func (m *Monitor) String() string {
	stats, err := m.Stats()
	if err != nil {
		return fmt.Sprintf("Monitor %q: (0 snaps, avg: n/a, 1%%: n/a)", m.name)
	}
	return fmt.Sprintf("Monitor %q: (%d snaps, avg: %.2fms, 1%%: %.2fms)",
		m.name, stats.Count, stats.Mean*1000, stats.P1*1000)
}

func clampBound(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
