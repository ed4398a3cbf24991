package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_IncAndAdd(t *testing.T) {
	r := NewRegistry()

	r.Inc(SnapsCommittedTotal)
	r.Add(SnapsCommittedTotal, 2)

	snap := r.Snapshot()
	assert.Equal(t, int64(3), snap[string(SnapsCommittedTotal)])
	assert.Equal(t, int64(3), r.Get(SnapsCommittedTotal))
}

func TestRegistry_MultipleMetrics(t *testing.T) {
	r := NewRegistry()

	r.Inc(RecordingsOpenedTotal)
	r.Inc(RecordingsSkippedTotal)
	r.Add(SnapsCulledTotal, 5)

	snap := r.Snapshot()

	assert.Equal(t, int64(1), snap[string(RecordingsOpenedTotal)])
	assert.Equal(t, int64(1), snap[string(RecordingsSkippedTotal)])
	assert.Equal(t, int64(5), snap[string(SnapsCulledTotal)])
}

func TestRegistry_ConcurrentUpdates(t *testing.T) {
	r := NewRegistry()
	wg := sync.WaitGroup{}

	workers := 50
	increments := 100

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				r.Inc(RecordingsOpenedTotal)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int64(workers*increments), r.Get(RecordingsOpenedTotal))
}

func TestRegistry_SnapshotIsDeepCopy(t *testing.T) {
	r := NewRegistry()

	r.Inc(MonitorsTotal)
	snap1 := r.Snapshot()

	// Mutate snapshot
	snap1[string(MonitorsTotal)] = 999

	snap2 := r.Snapshot()

	assert.Equal(t, int64(1), snap2[string(MonitorsTotal)],
		"internal state should not be affected by snapshot mutation")
}

func TestRegistry_UnknownMetricHandledGracefully(t *testing.T) {
	r := NewRegistry()

	r.Inc("unknown_metric")

	assert.Equal(t, int64(1), r.Snapshot()["unknown_metric"])
	assert.Equal(t, int64(0), r.Get(CullRunsTotal))
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var r *Registry

	assert.NotPanics(t, func() {
		r.Inc(CullRunsTotal)
		r.Add(SnapsCulledTotal, 3)
	})
	assert.Equal(t, int64(0), r.Get(CullRunsTotal))
	assert.Empty(t, r.Snapshot())
}
