package report

import "time"

// Status represents the overall health of the profiled frame loop.
type Status string

const (
	StatusOK       Status = "OK"
	StatusDegraded Status = "DEGRADED"
	StatusCritical Status = "CRITICAL"
)

// Row is one monitor's line in a report. Durations are in milliseconds.
type Row struct {
	Monitor  string  `json:"monitor"`
	Count    int     `json:"count"`
	MeanMs   float64 `json:"mean_ms"`
	P99Ms    float64 `json:"p99_ms"`
	LatestMs float64 `json:"latest_ms"`
}

// Report summarizes profiler statistics for a host to render or log.
type Report struct {
	OverallStatus   Status        `json:"overall_status"`
	Summary         string        `json:"summary"`
	Budget          time.Duration `json:"budget_ns"`
	Signals         []string      `json:"signals"`
	Recommendations []string      `json:"recommendations"`
	Rows            []Row         `json:"rows"`
}
