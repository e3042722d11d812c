package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/daap14/clustersmoke/internal/history"
	"github.com/daap14/clustersmoke/internal/probe"
	"github.com/daap14/clustersmoke/internal/report"
)

// ErrBusy is returned when a run is requested while another is in progress.
var ErrBusy = errors.New("a smoke run is already in progress")

// Launcher starts smoke runs.
type Launcher interface {
	Run(ctx context.Context, trigger string) (*report.Run, error)
	Start(ctx context.Context, trigger string) (uuid.UUID, error)
	Current() (uuid.UUID, bool)
}

// Runner executes the selected checks and records each finished run.
// At most one run is in flight at a time.
type Runner struct {
	checks []probe.Check
	repo   history.Repository

	mu      sync.Mutex
	current uuid.UUID
	active  bool
	wg      sync.WaitGroup
}

// New creates a Runner.
func New(checks []probe.Check, repo history.Repository) *Runner {
	return &Runner{
		checks: checks,
		repo:   repo,
	}
}

// Run executes a run synchronously and returns it once saved.
func (r *Runner) Run(ctx context.Context, trigger string) (*report.Run, error) {
	run, err := r.acquire(trigger)
	if err != nil {
		return nil, err
	}
	defer r.release()

	return run, r.execute(ctx, run)
}

// Start launches a run in the background and returns its ID immediately.
// The run is bound to ctx, not to the caller's request.
func (r *Runner) Start(ctx context.Context, trigger string) (uuid.UUID, error) {
	run, err := r.acquire(trigger)
	if err != nil {
		return uuid.Nil, err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.release()
		if err := r.execute(ctx, run); err != nil {
			slog.Error("runner: failed to record run", "run", run.ID.String(), "error", err)
		}
	}()

	return run.ID, nil
}

// Current returns the ID of the run in progress, if any.
func (r *Runner) Current() (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.active
}

// Wait blocks until background runs have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) acquire(trigger string) (*report.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return nil, ErrBusy
	}
	run := report.NewRun(trigger)
	r.current, r.active = run.ID, true
	return run, nil
}

func (r *Runner) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current, r.active = uuid.Nil, false
}

func (r *Runner) execute(ctx context.Context, run *report.Run) error {
	probe.Execute(ctx, run, r.checks)

	// Record the run even if ctx was cancelled mid-way.
	if err := r.repo.Save(context.WithoutCancel(ctx), run); err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}
