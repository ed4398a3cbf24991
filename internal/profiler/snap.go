package profiler

import (
	"fmt"
	"time"
)

// Snap is a single duration measurement in seconds.
// The zero value is an unrecorded snap.
type Snap struct {
	Duration float64 `json:"duration"`
}

// Record starts timing into s. The duration is written when the returned
// recording is stopped.
func (s *Snap) Record() *SnapRecording {
	return &SnapRecording{
		snap:  s,
		start: time.Now(),
	}
}

// Measure times fn into s. The duration is written on every exit path,
// including a panic in fn.
func (s *Snap) Measure(fn func() error) error {
	defer s.Record().Stop()
	return fn()
}

// Elapsed converts the duration to a time.Duration.
func (s Snap) Elapsed() time.Duration {
	return time.Duration(s.Duration * float64(time.Second))
}

func (s Snap) String() string {
	return fmt.Sprintf("Snap: %.2fms", s.Duration*1000)
}

// SnapRecording writes the time between its creation and Stop into one Snap.
// It is not safe for concurrent use.
type SnapRecording struct {
	snap    *Snap
	start   time.Time
	stopped bool
}

// Stop writes the elapsed time into the snap. Only the first call has an effect.
func (r *SnapRecording) Stop() {
	if r == nil || r.stopped {
		return
	}
	r.stopped = true
	r.snap.Duration = time.Since(r.start).Seconds()
}

// Elapsed reports the time since the recording started.
func (r *SnapRecording) Elapsed() time.Duration {
	return time.Since(r.start)
}
