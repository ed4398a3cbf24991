package profiler

import "errors"

var (
	// ErrNoData is returned by statistics on a monitor with an empty history.
	ErrNoData = errors.New("profiler: no snapshots recorded")

	// ErrInvalidPercentile is returned when a percentile is outside [0, 1] or NaN.
	ErrInvalidPercentile = errors.New("profiler: percentile must be within [0, 1]")
)
