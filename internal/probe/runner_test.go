package probe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corev1 "k8s.io/api/core/v1"

	"github.com/daap14/clustersmoke/internal/probe"
	"github.com/daap14/clustersmoke/internal/report"
)

func names(checks []probe.Check) []string {
	out := make([]string, 0, len(checks))
	for _, c := range checks {
		out = append(out, c.Name)
	}
	return out
}

func TestChecks_FixedOrder(t *testing.T) {
	p, _ := newTestProbe()

	assert.Equal(t, []string{
		probe.CheckNodeReadiness,
		probe.CheckSystemPods,
		probe.CheckNetworking,
		probe.CheckServiceReachability,
		probe.CheckDeploymentScaling,
		probe.CheckNodeResilience,
	}, names(p.Checks()))
}

func TestSelect(t *testing.T) {
	p, _ := newTestProbe()
	all := p.Checks()

	tests := []struct {
		name    string
		input   []string
		want    []string
		wantErr bool
	}{
		{name: "empty selects all", input: nil, want: names(all)},
		{
			name:  "subset keeps fixed order",
			input: []string{"node-resilience", " node-readiness "},
			want:  []string{"node-readiness", "node-resilience"},
		},
		{name: "duplicates collapse", input: []string{"system-pods", "system-pods"}, want: []string{"system-pods"}},
		{name: "unknown check", input: []string{"system-pods", "dns"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := probe.Select(all, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestExecute_RecordsEveryCheck(t *testing.T) {
	var order []string
	checks := []probe.Check{
		{Name: "first", Run: func(context.Context) error { order = append(order, "first"); return nil }},
		{Name: "second", Run: func(context.Context) error {
			order = append(order, "second")
			return &probe.AssertionError{Check: "second", Message: "Pod x is not running"}
		}},
		{Name: "third", Run: func(context.Context) error {
			order = append(order, "third")
			return fmt.Errorf("listing nodes: %w", assert.AnError)
		}},
		{Name: "fourth", Run: func(context.Context) error { order = append(order, "fourth"); return nil }},
	}

	run := report.NewRun(report.TriggerCLI)
	probe.Execute(context.Background(), run, checks)

	assert.Equal(t, []string{"first", "second", "third", "fourth"}, order)
	require.Len(t, run.Results, 4)
	assert.Equal(t, report.StatusPassed, run.Results[0].Status)
	assert.Equal(t, report.StatusFailed, run.Results[1].Status)
	assert.Equal(t, "Pod x is not running", run.Results[1].Message)
	assert.Equal(t, report.StatusFailed, run.Results[2].Status)
	assert.Contains(t, run.Results[2].Message, "listing nodes")
	assert.Equal(t, report.StatusPassed, run.Results[3].Status)
	assert.False(t, run.Passed())
	assert.Equal(t, report.TriggerCLI, run.Trigger)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
}

func TestExecute_HealthyCluster(t *testing.T) {
	p, _ := newTestProbe(
		node("node-a", corev1.ConditionTrue),
		pod("kube-system", "coredns-1", corev1.PodRunning),
	)
	checks, err := probe.Select(p.Checks(), []string{probe.CheckNodeReadiness, probe.CheckSystemPods, probe.CheckNodeResilience})
	require.NoError(t, err)

	run := report.NewRun(report.TriggerAPI)
	probe.Execute(context.Background(), run, checks)

	assert.True(t, run.Passed())
	assert.Equal(t, report.Summary{Total: 3, Passed: 3}, run.Summary())
}

func TestIsAssertion(t *testing.T) {
	ae := &probe.AssertionError{Check: "x", Message: "boom"}

	assert.True(t, probe.IsAssertion(ae))
	assert.True(t, probe.IsAssertion(fmt.Errorf("wrapped: %w", ae)))
	assert.False(t, probe.IsAssertion(assert.AnError))
	assert.Equal(t, "boom", ae.Error())
}
