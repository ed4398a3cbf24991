package main

import (
	"context"
	"testing"
	"time"

	"corvid-debug/internal/config"
	"corvid-debug/internal/metrics"
	"corvid-debug/internal/profiler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameLoop_OneSnapPerMonitorPerFrame(t *testing.T) {
	reg := metrics.NewRegistry()
	prof := profiler.NewProfiler(profiler.WithMetrics(reg))
	loop := newFrameLoop(prof, func(time.Duration) {})

	for i := 0; i < 5; i++ {
		loop.step()
	}

	assert.Equal(t, []string{"physics", "render", "update"}, prof.Names())
	for _, name := range prof.Names() {
		m, ok := prof.Lookup(name)
		require.True(t, ok)
		assert.Equal(t, 5, m.Len(), name)
	}
	assert.Equal(t, int64(5*(physicsSubsteps-1)), reg.Get(metrics.RecordingsMergedTotal))
}

func TestRun_StopsAfterFrames(t *testing.T) {
	cfg := config.Default()
	cfg.FrameRate = 1000
	cfg.Frames = 4
	cfg.ReportEvery = 2

	prof := profiler.NewProfiler()
	loop := newFrameLoop(prof, func(time.Duration) {})

	reports := 0
	frames := run(context.Background(), loop, &cfg, func() { reports++ })

	assert.Equal(t, 4, frames)
	assert.Equal(t, 2, reports)
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Frames = 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames := run(ctx, newFrameLoop(profiler.NewProfiler(), func(time.Duration) {}), &cfg, func() {})

	assert.Equal(t, 0, frames)
}
