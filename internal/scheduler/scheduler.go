// Package scheduler drives the processing worker and the recovery sweep on
// fixed, independent intervals. It holds no domain state beyond the per-task
// in-flight guards.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"receiptscan/internal/config"
	"receiptscan/internal/metrics"
	"receiptscan/internal/service"
)

const (
	taskProcess = "process"
	taskRecover = "recover"
)

// Scheduler ticks the two pipeline tasks. Overlapping ticks of the same task
// are skipped via a compare-and-swap guard; the two tasks run independently
// and may overlap each other. A task's error or panic is logged and never
// stops future ticks.
type Scheduler struct {
	processor service.Processor
	cfg       config.SchedulerConfig
	pipeline  *metrics.Pipeline
	logger    *slog.Logger

	processInFlight atomic.Bool
	recoverInFlight atomic.Bool
}

// New constructs a Scheduler. pipeline may be nil when metrics are not wired.
func New(processor service.Processor, cfg config.SchedulerConfig, pipeline *metrics.Pipeline, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		processor: processor,
		cfg:       cfg,
		pipeline:  pipeline,
		logger:    logger,
	}
}

// Start runs the tickers until ctx is cancelled and then returns after any
// in-flight task run has finished.
func (s *Scheduler) Start(ctx context.Context) {
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		s.tick(ctx, taskProcess, s.cfg.ProcessInterval, &s.processInFlight, func(ctx context.Context) error {
			_, err := s.processor.ProcessBatch(ctx, s.cfg.BatchSize)
			return err
		})
	}()
	go func() {
		defer wg.Done()
		s.tick(ctx, taskRecover, s.cfg.RecoverInterval, &s.recoverInFlight, func(ctx context.Context) error {
			_, err := s.processor.RecoverStale(ctx, s.cfg.Staleness)
			return err
		})
	}()

	s.logger.Info("scheduler started",
		"process_interval", s.cfg.ProcessInterval,
		"recover_interval", s.cfg.RecoverInterval,
		"batch_size", s.cfg.BatchSize,
		"staleness", s.cfg.Staleness,
	)

	wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) tick(ctx context.Context, task string, interval time.Duration, guard *atomic.Bool, run func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runGuarded(ctx, task, guard, run)
		}
	}
}

// runGuarded executes one task run under its in-flight guard. The guard is
// released on every exit path, including panics, so a failing run can never
// block future ticks.
func (s *Scheduler) runGuarded(ctx context.Context, task string, guard *atomic.Bool, run func(context.Context) error) {
	if !guard.CompareAndSwap(false, true) {
		s.logger.Debug("previous run still in flight, skipping tick", "task", task)
		return
	}
	defer guard.Store(false)

	start := time.Now()
	defer func() {
		if s.pipeline != nil {
			s.pipeline.RunDuration.WithLabelValues(task).Observe(time.Since(start).Seconds())
		}
		if r := recover(); r != nil {
			s.logger.Error("task panicked", "task", task, "panic", fmt.Sprint(r))
		}
	}()

	if err := run(ctx); err != nil {
		s.logger.Error("task run failed", "task", task, "error", err)
	}
}
