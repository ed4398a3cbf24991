package profiler

import (
	"corvid-debug/internal/metrics"

	"go.uber.org/zap"
)

// Recording times a region of code for a Monitor.
//
// A recording returned by Monitor.Record appends a new snap when stopped.
// One returned by Monitor.Continue adds its elapsed time to the snap the
// monitor committed this frame instead.
//
// Stop may be called on a nil *Recording, which makes
// `defer m.Record().Stop()` safe when no recording could be opened.
// A Recording is not safe for concurrent use.
type Recording struct {
	monitor *Monitor
	frame   uint64
	opener  bool
	snap    Snap
	timer   *SnapRecording
}

func newRecording(m *Monitor, frame uint64, opener bool) *Recording {
	r := &Recording{
		monitor: m,
		frame:   frame,
		opener:  opener,
	}
	r.timer = r.snap.Record()
	return r
}

// Stop commits the elapsed time to the monitor. Only the first call has an effect.
func (r *Recording) Stop() {
	if r == nil || r.timer.stopped {
		return
	}
	r.timer.Stop()

	m := r.monitor
	if r.opener {
		m.commit(r.snap, r.frame)
		return
	}

	if !m.merge(r.snap, r.frame) {
		m.metrics.Inc(metrics.RecordingsDiscardedTotal)
		m.logger.Warn("recording discarded: frame snap no longer available",
			zap.String("monitor", m.name),
			zap.Float64("duration_ms", r.snap.Duration*1000),
		)
		return
	}
	m.metrics.Inc(metrics.RecordingsMergedTotal)
}
