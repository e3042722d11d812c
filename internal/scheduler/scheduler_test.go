package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/daap14/clustersmoke/internal/report"
	"github.com/daap14/clustersmoke/internal/runner"
	"github.com/daap14/clustersmoke/internal/scheduler"
)

// mockLauncher implements runner.Launcher for testing.
type mockLauncher struct {
	mu       sync.Mutex
	triggers []string
	err      error
}

func (m *mockLauncher) Run(_ context.Context, trigger string) (*report.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers = append(m.triggers, trigger)
	if m.err != nil {
		return nil, m.err
	}
	run := report.NewRun(trigger)
	run.Results = append(run.Results, report.Result{Check: "node-readiness", Status: report.StatusFailed})
	return run, nil
}

func (m *mockLauncher) Start(context.Context, string) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func (m *mockLauncher) Current() (uuid.UUID, bool) {
	return uuid.Nil, false
}

func (m *mockLauncher) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.triggers...)
}

func runFor(s *scheduler.Scheduler, d time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	s.Start(ctx)
}

func TestScheduler_TriggersRuns(t *testing.T) {
	launcher := &mockLauncher{}

	runFor(scheduler.New(launcher, 10*time.Millisecond), 100*time.Millisecond)

	calls := launcher.calls()
	assert.GreaterOrEqual(t, len(calls), 2)
	for _, trigger := range calls {
		assert.Equal(t, report.TriggerSchedule, trigger)
	}
}

func TestScheduler_SurvivesBusyRunner(t *testing.T) {
	launcher := &mockLauncher{err: runner.ErrBusy}

	runFor(scheduler.New(launcher, 10*time.Millisecond), 60*time.Millisecond)

	assert.NotEmpty(t, launcher.calls())
}

func TestScheduler_StopsOnCancel(t *testing.T) {
	launcher := &mockLauncher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		scheduler.New(launcher, time.Hour).Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	assert.Empty(t, launcher.calls())
}
