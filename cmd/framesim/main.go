package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"corvid-debug/internal/config"
	"corvid-debug/internal/logs"
	"corvid-debug/internal/metrics"
	"corvid-debug/internal/profiler"
	"corvid-debug/internal/report"
	"corvid-debug/internal/retention"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	// Flags and config
	fs := pflag.NewFlagSet("framesim", pflag.ExitOnError)
	config.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	path, _ := fs.GetString("config")
	cfg, err := config.Load(path, fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	// Logger
	level, _ := logs.ParseLevel(cfg.LogLevel) // validated by Load
	logger := logs.NewLogger(cfg.LogBuffer, level)
	defer logger.Flush()

	// Root context, cancelled on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Profiler, owned by the host for the whole run
	metricsRegistry := metrics.NewRegistry()
	prof := profiler.NewProfiler(
		profiler.WithLogger(logger),
		profiler.WithMetrics(metricsRegistry),
		profiler.WithDefaultMaxSnapshots(cfg.MaxSnapshots),
	)

	// Retention
	culler := retention.NewCuller(prof, cfg.CullInterval, logger)
	go culler.Start(ctx)

	analyzer := report.NewAnalyzer(prof, metricsRegistry, logger, cfg.FrameBudget)

	logger.Info("frame simulation started",
		zap.Int("frame_rate", cfg.FrameRate),
		zap.Int("frames", cfg.Frames),
		zap.Duration("frame_budget", cfg.FrameBudget),
	)

	loop := newFrameLoop(prof, sleepWork)
	frames := run(ctx, loop, cfg, func() { logReport(logger, analyzer.Analyze()) })

	logReport(logger, analyzer.Analyze())
	logger.Info("frame simulation finished",
		zap.Int("frames", frames),
		zap.Any("metrics", metricsRegistry.Snapshot()),
	)
}

// run drives the loop at the configured frame rate until cfg.Frames frames
// ran or ctx is cancelled. It returns the number of frames run.
func run(ctx context.Context, loop *frameLoop, cfg *config.Config, onReport func()) int {
	ticker := time.NewTicker(cfg.FrameInterval())
	defer ticker.Stop()

	frame := 0
	for cfg.Frames == 0 || frame < cfg.Frames {
		select {
		case <-ctx.Done():
			return frame
		case <-ticker.C:
		}

		loop.step()
		frame++

		if frame%cfg.ReportEvery == 0 {
			onReport()
		}
	}
	return frame
}

func logReport(logger *logs.Logger, rep report.Report) {
	logger.Info("frame report",
		zap.String("status", string(rep.OverallStatus)),
		zap.String("summary", rep.Summary),
		zap.Strings("signals", rep.Signals),
		zap.Any("rows", rep.Rows),
	)
}
