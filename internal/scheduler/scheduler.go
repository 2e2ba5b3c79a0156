// Package scheduler wraps robfig/cron to trigger tracker passes on a
// configured cadence in serve mode.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a single pass function on a cron cadence. Overlapping
// triggers are skipped rather than run concurrently: the design assumes one
// pass completes before the next begins.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
	wg     sync.WaitGroup
}

// New creates a Scheduler bound to the given context for shutdown.
func New(ctx context.Context, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	schedCtx, cancel := context.WithCancel(ctx)
	cronLogger := &cronSlogAdapter{logger: logger}

	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		),
	)

	return &Scheduler{
		cron:   c,
		ctx:    schedCtx,
		cancel: cancel,
		logger: logger,
	}
}

// Schedule registers the pass function under the given schedule expression.
func (s *Scheduler) Schedule(expr string, fn func(context.Context) error) error {
	schedule, err := ParseSchedule(expr)
	if err != nil {
		return fmt.Errorf("failed to parse schedule %q: %w", expr, err)
	}

	s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.wg.Add(1)
		defer s.wg.Done()

		start := time.Now()
		if err := fn(s.ctx); err != nil {
			s.logger.Error("scheduled pass failed",
				"error", err,
				"duration_ms", time.Since(start).Milliseconds())
			return
		}
		s.logger.Debug("scheduled pass completed",
			"duration_ms", time.Since(start).Milliseconds())
	}))

	s.logger.Info("pass scheduled",
		"schedule", expr,
		"next_run", schedule.Next(time.Now()))
	return nil
}

// Start begins triggering scheduled passes.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels the scheduler context, stops the cron loop, and waits for any
// in-flight pass to finish.
func (s *Scheduler) Stop() error {
	s.logger.Info("stopping scheduler")
	s.cancel()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
	case <-time.After(30 * time.Second):
		s.logger.Warn("shutdown timeout reached, a pass may still be running")
	}

	return nil
}

// cronSlogAdapter adapts slog.Logger to the cron.Logger interface.
type cronSlogAdapter struct {
	logger *slog.Logger
}

func (a *cronSlogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a *cronSlogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	attrs := make([]any, 0, len(keysAndValues)+2)
	attrs = append(attrs, "error", err.Error())
	attrs = append(attrs, keysAndValues...)
	a.logger.Error(msg, attrs...)
}
