package retention

import (
	"context"
	"time"

	"corvid-debug/internal/logs"

	"go.uber.org/zap"
)

// Target is the minimal contract required by the culler.
// *profiler.Profiler satisfies it.
type Target interface {
	Cull() int
}

// Culler periodically bounds the memory of a profiler by culling every
// monitor to its retention bound.
type Culler struct {
	target   Target
	interval time.Duration
	logger   *logs.Logger
}

// NewCuller creates a new Culler. A nil logger discards output.
func NewCuller(
	target Target,
	interval time.Duration,
	logger *logs.Logger,
) *Culler {
	if logger == nil {
		logger = logs.Nop()
	}
	return &Culler{
		target:   target,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the cull loop until the context is cancelled.
// It blocks and should typically be run in a separate goroutine.
func (c *Culler) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runOnce()
		case <-ctx.Done():
			c.logger.Debug("retention culler stopped")
			return
		}
	}
}

// runOnce performs a single cull cycle
func (c *Culler) runOnce() int {
	removed := c.target.Cull()
	if removed > 0 {
		c.logger.Info("retention culler removed snaps", zap.Int("removed", removed))
	}
	return removed
}
