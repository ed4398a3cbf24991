package report

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"corvid-debug/internal/logs"
	"corvid-debug/internal/metrics"
	"corvid-debug/internal/profiler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource map[string]profiler.Stats

func (s stubSource) Stats() map[string]profiler.Stats { return s }

const budget = 10 * time.Millisecond

func newTestLogger() *logs.Logger {
	return logs.NewLoggerTo(io.Discard, 10, logs.DEBUG)
}

func TestAnalyzer_OK(t *testing.T) {
	src := stubSource{
		"render": {Count: 3, Mean: 0.004, P99: 0.006, Latest: 0.005},
	}

	report := NewAnalyzer(src, metrics.NewRegistry(), newTestLogger(), budget).Analyze()

	assert.Equal(t, StatusOK, report.OverallStatus)
	assert.Empty(t, report.Signals)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "render", report.Rows[0].Monitor)
	assert.InDelta(t, 4.0, report.Rows[0].MeanMs, 1e-9)
}

func TestAnalyzer_CriticalMeanOverBudget(t *testing.T) {
	src := stubSource{
		"render":  {Count: 3, Mean: 0.020, P99: 0.030},
		"physics": {Count: 3, Mean: 0.002, P99: 0.003},
	}

	report := NewAnalyzer(src, nil, nil, budget).Analyze()

	assert.Equal(t, StatusCritical, report.OverallStatus)
	assert.Contains(t, report.Signals, "Average over frame budget: [render]")
	assert.Contains(t, report.Signals, "p99 over frame budget: [render]")
}

func TestAnalyzer_DegradedTailLatency(t *testing.T) {
	src := stubSource{
		"update": {Count: 100, Mean: 0.004, P99: 0.012},
	}

	report := NewAnalyzer(src, nil, nil, budget).Analyze()

	assert.Equal(t, StatusDegraded, report.OverallStatus)
	assert.Len(t, report.Signals, 1)
	assert.Equal(t, "Frame loop performance issues detected", report.Summary)
}

func TestAnalyzer_DegradedSkippedRecordings(t *testing.T) {
	reg := metrics.NewRegistry()
	prof := profiler.NewProfiler(profiler.WithMetrics(reg))
	m := prof.Monitor("render")
	m.Record().Stop()
	assert.Nil(t, m.Record())

	report := NewAnalyzer(prof, reg, nil, time.Second).Analyze()

	assert.Equal(t, StatusDegraded, report.OverallStatus)
	assert.Contains(t, report.Signals,
		"Recordings skipped because a frame was already recorded")
}

func TestAnalyzer_LogBasedDiscardedRecordings(t *testing.T) {
	logger := newTestLogger()
	prof := profiler.NewProfiler(profiler.WithLogger(logger))
	m := prof.Monitor("render")

	for i := 0; i < 3; i++ {
		m.Record().Stop()
		cont := m.Continue()
		require.NotNil(t, cont)
		m.NewFrame()
		cont.Stop()
	}

	report := NewAnalyzer(prof, nil, logger, time.Second).Analyze()

	assert.Equal(t, StatusDegraded, report.OverallStatus)
	assert.Contains(t, report.Signals,
		"Repeated discarded recordings detected in logs")
}

func TestAnalyzer_ZeroBudgetDisablesBudgetRules(t *testing.T) {
	src := stubSource{"render": {Count: 1, Mean: 1, P99: 1}}

	report := NewAnalyzer(src, nil, nil, 0).Analyze()

	assert.Equal(t, StatusOK, report.OverallStatus)
}

func TestReport_JSONShape(t *testing.T) {
	src := stubSource{
		"b": {Count: 1, Mean: 0.001},
		"a": {Count: 1, Mean: 0.002},
	}
	report := NewAnalyzer(src, nil, nil, budget).Analyze()

	assert.Equal(t, "a", report.Rows[0].Monitor, "rows are sorted by monitor name")

	body, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Contains(t, decoded, "overall_status")
	assert.Contains(t, decoded, "summary")
	assert.Contains(t, decoded, "signals")
	assert.Contains(t, decoded, "recommendations")
	assert.Contains(t, decoded, "rows")
}
