package report

import (
	"sort"
	"strings"
	"time"

	"corvid-debug/internal/logs"
	"corvid-debug/internal/metrics"
	"corvid-debug/internal/profiler"
)

// Source is the read side of a profiler.
type Source interface {
	Stats() map[string]profiler.Stats
}

// Analyzer converts profiler statistics, self-metrics and logs into a report.
type Analyzer struct {
	source  Source
	metrics *metrics.Registry
	logger  *logs.Logger
	budget  time.Duration
	rules   []Rule
}

// NewAnalyzer creates a new analyzer. reg and logger may be nil.
func NewAnalyzer(
	source Source,
	reg *metrics.Registry,
	logger *logs.Logger,
	budget time.Duration,
) *Analyzer {
	if logger == nil {
		logger = logs.Nop()
	}
	return &Analyzer{
		source:  source,
		metrics: reg,
		logger:  logger,
		budget:  budget,
		rules: []Rule{
			FrameBudgetRule,
			TailLatencyRule,
			SkippedRecordingRule,
		},
	}
}

// Analyze evaluates the rules and returns a report.
func (a *Analyzer) Analyze() Report {
	in := Input{
		Stats:   a.source.Stats(),
		Metrics: a.metrics.Snapshot(),
		Budget:  a.budget,
	}

	var (
		signals         = []string{}
		recommendations = []string{}
		status          = StatusOK
	)

	/* ---------- STATS-BASED RULES ---------- */

	for _, rule := range a.rules {
		result := rule(in)
		if !result.Triggered {
			continue
		}

		signals = append(signals, result.Signal)
		recommendations = append(recommendations, result.Recommendation)
		status = escalate(status, result.Severity)
	}

	/* ---------- LOG-BASED SIGNALS ---------- */

	discarded := 0
	for _, entry := range a.logger.GetLast(100) {
		if entry.Level == logs.WARN &&
			strings.HasPrefix(entry.Message, "recording discarded") {
			discarded++
		}
	}

	if discarded >= 3 {
		signals = append(signals,
			"Repeated discarded recordings detected in logs",
		)
		recommendations = append(recommendations,
			"Stop continued recordings before NewFrame, Cull or Clear",
		)
		status = escalate(status, StatusDegraded)
	}

	/* ---------- SUMMARY ---------- */

	summary := "Frame loop within budget"
	if status != StatusOK {
		summary = "Frame loop performance issues detected"
	}

	return Report{
		OverallStatus:   status,
		Summary:         summary,
		Budget:          a.budget,
		Signals:         signals,
		Recommendations: recommendations,
		Rows:            rows(in.Stats),
	}
}

func escalate(current, next Status) Status {
	if next == StatusCritical {
		return StatusCritical
	}
	if next == StatusDegraded && current == StatusOK {
		return StatusDegraded
	}
	return current
}

func rows(stats map[string]profiler.Stats) []Row {
	out := make([]Row, 0, len(stats))
	for name, s := range stats {
		out = append(out, Row{
			Monitor:  name,
			Count:    s.Count,
			MeanMs:   s.Mean * 1000,
			P99Ms:    s.P99 * 1000,
			LatestMs: s.Latest * 1000,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Monitor < out[j].Monitor })
	return out
}
