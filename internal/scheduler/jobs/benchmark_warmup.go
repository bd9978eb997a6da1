// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"

	"github.com/stockresearcher/backend/internal/seasonality"
	"github.com/stockresearcher/backend/pkg/logger"
)

// BenchmarkWarmupJob recomputes the cached benchmark averages for every
// supported (holdingPeriod, method) combination, so heatmap requests hit
// a warm cache after each ingestion run.
type BenchmarkWarmupJob struct {
	benchmark *seasonality.Benchmark
	yearsBack int
	logger    *logger.Logger
}

// NewBenchmarkWarmupJob creates a new benchmark warmup job.
func NewBenchmarkWarmupJob(benchmark *seasonality.Benchmark, yearsBack int, log *logger.Logger) *BenchmarkWarmupJob {
	return &BenchmarkWarmupJob{
		benchmark: benchmark,
		yearsBack: yearsBack,
		logger:    log,
	}
}

// Name returns the job name.
func (j *BenchmarkWarmupJob) Name() string {
	return "benchmark_warmup"
}

// Schedule returns the cron schedule (daily at 06:30, after the nightly
// price load).
func (j *BenchmarkWarmupJob) Schedule() string {
	return "0 30 6 * * *"
}

// Run executes the warmup.
func (j *BenchmarkWarmupJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting benchmark warmup")

	if err := j.benchmark.Refresh(ctx, j.yearsBack); err != nil {
		return err
	}

	j.logger.WithField("years_back", j.yearsBack).Info("Benchmark warmup completed")
	return nil
}
