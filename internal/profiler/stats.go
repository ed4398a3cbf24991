package profiler

import "sort"

// Stats summarizes a monitor's history. Durations are in seconds.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P1     float64 `json:"p1"`
	P50    float64 `json:"p50"`
	P99    float64 `json:"p99"`
	Latest float64 `json:"latest"`
}

// Stats computes all summary values from one consistent view of the history.
func (m *Monitor) Stats() (Stats, error) {
	m.mu.RLock()
	if len(m.snaps) == 0 {
		m.mu.RUnlock()
		return Stats{}, ErrNoData
	}
	sorted := make([]float64, len(m.snaps))
	var total float64
	for i, s := range m.snaps {
		sorted[i] = s.Duration
		total += s.Duration
	}
	latest := m.snaps[len(m.snaps)-1].Duration
	m.mu.RUnlock()

	sort.Float64s(sorted)

	return Stats{
		Count:  len(sorted),
		Mean:   total / float64(len(sorted)),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P1:     percentileOf(sorted, 0.01),
		P50:    percentileOf(sorted, 0.50),
		P99:    percentileOf(sorted, 0.99),
		Latest: latest,
	}, nil
}
