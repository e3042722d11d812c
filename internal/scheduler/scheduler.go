package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/daap14/clustersmoke/internal/report"
	"github.com/daap14/clustersmoke/internal/runner"
)

// Scheduler triggers smoke runs on a fixed interval.
type Scheduler struct {
	launcher runner.Launcher
	interval time.Duration
}

// New creates a new Scheduler.
func New(launcher runner.Launcher, interval time.Duration) *Scheduler {
	return &Scheduler{
		launcher: launcher,
		interval: interval,
	}
}

// Start begins the scheduling loop. It blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("scheduler started", "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	run, err := s.launcher.Run(ctx, report.TriggerSchedule)
	if errors.Is(err, runner.ErrBusy) {
		slog.Info("scheduler: run in progress, skipping tick")
		return
	}
	if err != nil {
		slog.Error("scheduler: run failed to record", "error", err)
		return
	}
	if !run.Passed() {
		slog.Warn("scheduler: smoke run failed", "run", run.ID.String(), "failed", run.Summary().Failed)
	}
}
