package probe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/daap14/clustersmoke/internal/report"
)

// Check is a named smoke check.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// Checks returns every check in its fixed execution order.
func (p *Probe) Checks() []Check {
	return []Check{
		{Name: CheckNodeReadiness, Run: p.NodeReadiness},
		{Name: CheckSystemPods, Run: p.SystemPods},
		{Name: CheckNetworking, Run: p.Networking},
		{Name: CheckServiceReachability, Run: p.ServiceReachability},
		{Name: CheckDeploymentScaling, Run: p.DeploymentScaling},
		{Name: CheckNodeResilience, Run: p.NodeResilience},
	}
}

// Select narrows checks to the named subset, keeping the fixed order.
// An empty names list selects everything.
func Select(checks []Check, names []string) ([]Check, error) {
	if len(names) == 0 {
		return checks, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			wanted[n] = true
		}
	}

	var selected []Check
	for _, c := range checks {
		if wanted[c.Name] {
			selected = append(selected, c)
			delete(wanted, c.Name)
		}
	}

	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for n := range wanted {
			unknown = append(unknown, n)
		}
		return nil, fmt.Errorf("unknown checks: %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}

// Execute runs checks one after another and records each outcome in run.
// A failing check never stops the ones after it.
func Execute(ctx context.Context, run *report.Run, checks []Check) {
	slog.Info("smoke run started", "run", run.ID.String(), "trigger", run.Trigger, "checks", len(checks))

	for _, c := range checks {
		run.Results = append(run.Results, runOne(ctx, c))
	}

	run.FinishedAt = time.Now().UTC()
	s := run.Summary()
	slog.Info("smoke run finished",
		"run", run.ID.String(),
		"passed", s.Passed,
		"failed", s.Failed,
		"duration", run.FinishedAt.Sub(run.StartedAt).String(),
	)
}

func runOne(ctx context.Context, c Check) report.Result {
	res := report.Result{
		Check:     c.Name,
		Status:    report.StatusPassed,
		StartedAt: time.Now().UTC(),
	}

	err := c.Run(ctx)
	res.Duration = time.Since(res.StartedAt)

	switch {
	case err == nil:
		slog.Info("check passed", "check", c.Name, "duration", res.Duration.String())
	case IsAssertion(err):
		res.Status = report.StatusFailed
		res.Message = err.Error()
		slog.Warn("check failed", "check", c.Name, "message", res.Message)
	default:
		res.Status = report.StatusFailed
		res.Message = err.Error()
		slog.Error("check errored", "check", c.Name, "error", err)
	}
	return res
}
