package report

import (
	"fmt"
	"sort"
	"time"

	"corvid-debug/internal/metrics"
	"corvid-debug/internal/profiler"
)

// Input is everything a rule may look at.
type Input struct {
	Stats   map[string]profiler.Stats
	Metrics map[string]int64
	Budget  time.Duration
}

// RuleResult represents the outcome of a single rule.
type RuleResult struct {
	Triggered      bool
	Signal         string
	Recommendation string
	Severity       Status
}

// Rule evaluates one aspect of the profiler state.
type Rule func(in Input) RuleResult

// ---------- RULES ----------

// A monitor whose mean exceeds the budget misses it on most frames.
func FrameBudgetRule(in Input) RuleResult {
	over := monitorsOver(in, func(s profiler.Stats) float64 { return s.Mean })
	if len(over) == 0 {
		return RuleResult{}
	}
	return RuleResult{
		Triggered:      true,
		Signal:         fmt.Sprintf("Average over frame budget: %v", over),
		Recommendation: "Profile the listed regions and move work off the frame loop",
		Severity:       StatusCritical,
	}
}

// A monitor whose p99 exceeds the budget stutters occasionally.
func TailLatencyRule(in Input) RuleResult {
	over := monitorsOver(in, func(s profiler.Stats) float64 { return s.P99 })
	if len(over) == 0 {
		return RuleResult{}
	}
	return RuleResult{
		Triggered:      true,
		Signal:         fmt.Sprintf("p99 over frame budget: %v", over),
		Recommendation: "Look for periodic spikes such as allocation bursts or blocking I/O",
		Severity:       StatusDegraded,
	}
}

// Skipped recordings mean a region was entered twice in one frame.
func SkippedRecordingRule(in Input) RuleResult {
	if in.Metrics[string(metrics.RecordingsSkippedTotal)] == 0 {
		return RuleResult{}
	}
	return RuleResult{
		Triggered:      true,
		Signal:         "Recordings skipped because a frame was already recorded",
		Recommendation: "Call NewFrame once per frame, or use Continue for repeated regions",
		Severity:       StatusDegraded,
	}
}

func monitorsOver(in Input, pick func(profiler.Stats) float64) []string {
	if in.Budget <= 0 {
		return nil
	}
	limit := in.Budget.Seconds()

	var out []string
	for name, s := range in.Stats {
		if pick(s) > limit {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
