package profiler

import (
	"errors"
	"sort"
	"sync"

	"corvid-debug/internal/logs"
	"corvid-debug/internal/metrics"

	"go.uber.org/zap"
)

// Profiler maps monitor names to monitors. Monitors are created on first
// access and never removed individually.
//
// A Profiler is meant to be created once by the host and passed to the code
// that records into it.
type Profiler struct {
	mu       sync.RWMutex
	monitors map[string]*Monitor

	logger       *logs.Logger
	metrics      *metrics.Registry
	maxSnapshots int
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithLogger sets the logger shared by the profiler and its monitors.
func WithLogger(l *logs.Logger) Option {
	return func(p *Profiler) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics sets the self-metrics registry shared with monitors.
func WithMetrics(r *metrics.Registry) Option {
	return func(p *Profiler) { p.metrics = r }
}

// WithDefaultMaxSnapshots sets the retention bound given to new monitors.
func WithDefaultMaxSnapshots(n int) Option {
	return func(p *Profiler) { p.maxSnapshots = clampBound(n) }
}

// NewProfiler creates an empty profiler.
func NewProfiler(opts ...Option) *Profiler {
	p := &Profiler{
		monitors:     make(map[string]*Monitor),
		logger:       logs.Nop(),
		maxSnapshots: DefaultMaxSnapshots,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Monitor returns the monitor for name, creating it if necessary.
func (p *Profiler) Monitor(name string) *Monitor {
	p.mu.RLock()
	m, ok := p.monitors[name]
	p.mu.RUnlock()

	if ok {
		return m
	}

	p.mu.Lock()
	// Double-check after acquiring write lock
	if m, ok = p.monitors[name]; ok {
		p.mu.Unlock()
		return m
	}
	m = NewMonitor(name,
		WithMaxSnapshots(p.maxSnapshots),
		WithMonitorLogger(p.logger),
		WithMonitorMetrics(p.metrics),
	)
	p.monitors[name] = m
	p.mu.Unlock()

	p.metrics.Inc(metrics.MonitorsTotal)
	p.logger.Debug("monitor created",
		zap.String("monitor", name),
		zap.Int("max_snapshots", p.maxSnapshots),
	)
	return m
}

// Lookup returns an existing monitor without creating one.
func (p *Profiler) Lookup(name string) (*Monitor, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, ok := p.monitors[name]
	return m, ok
}

// Names returns the registered monitor names, sorted.
func (p *Profiler) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]string, 0, len(p.monitors))
	for name := range p.monitors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Clear empties every monitor's history. Monitors stay registered.
func (p *Profiler) Clear() {
	for _, m := range p.all() {
		m.Clear()
	}
	p.metrics.Inc(metrics.ProfilerClearsTotal)
}

// NewFrame marks a frame boundary on every monitor.
func (p *Profiler) NewFrame() {
	for _, m := range p.all() {
		m.NewFrame()
	}
}

// Cull culls every monitor to its own retention bound and returns the total
// number of snaps removed.
func (p *Profiler) Cull() int {
	removed := 0
	for _, m := range p.all() {
		removed += m.CullToMax()
	}
	p.metrics.Inc(metrics.CullRunsTotal)
	return removed
}

// Stats returns statistics for every monitor that holds at least one snap.
func (p *Profiler) Stats() map[string]Stats {
	out := make(map[string]Stats)
	for _, m := range p.all() {
		s, err := m.Stats()
		if errors.Is(err, ErrNoData) {
			continue
		}
		out[m.Name()] = s
	}
	return out
}

func (p *Profiler) all() []*Monitor {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*Monitor, 0, len(p.monitors))
	for _, m := range p.monitors {
		out = append(out, m)
	}
	return out
}
