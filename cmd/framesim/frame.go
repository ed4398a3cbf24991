package main

import (
	"math/rand/v2"
	"time"

	"corvid-debug/internal/profiler"
)

const physicsSubsteps = 3

// frameLoop is a stand-in for a game loop: three systems per frame, each
// measured by its own monitor.
type frameLoop struct {
	prof *profiler.Profiler
	work func(base time.Duration)
}

func newFrameLoop(prof *profiler.Profiler, work func(time.Duration)) *frameLoop {
	return &frameLoop{prof: prof, work: work}
}

// sleepWork simulates a region taking base plus up to 50% jitter.
func sleepWork(base time.Duration) {
	jitter := time.Duration(rand.Int64N(int64(base/2) + 1))
	time.Sleep(base + jitter)
}

func (l *frameLoop) step() {
	l.prof.NewFrame()

	// update: scoped form
	_, _ = l.prof.Monitor("update").Measure(func() error {
		l.work(2 * time.Millisecond)
		return nil
	})

	// physics: substeps after the first are folded into the frame's snap
	physics := l.prof.Monitor("physics")
	for i := 0; i < physicsSubsteps; i++ {
		rec := physics.Continue()
		if rec == nil {
			rec = physics.Record()
		}
		l.work(time.Millisecond)
		rec.Stop()
	}

	// render: explicit recording
	render := l.prof.Monitor("render")
	rec := render.Record()
	l.work(4 * time.Millisecond)
	rec.Stop()
}
