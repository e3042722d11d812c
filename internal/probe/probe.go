// Package probe runs smoke checks against a live Kubernetes control plane.
//
// Each check lists or reads cluster objects, evaluates a predicate and fails
// on the first violation it finds. The mutating checks (networking, deployment
// scaling, node resilience) leave the cluster changed; nothing is cleaned up.
package probe

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"
)

// Check names, in execution order.
const (
	CheckNodeReadiness       = "node-readiness"
	CheckSystemPods          = "system-pods"
	CheckNetworking          = "networking"
	CheckServiceReachability = "service-reachability"
	CheckDeploymentScaling   = "deployment-scaling"
	CheckNodeResilience      = "node-resilience"
)

// Options tunes the namespaces, targets and wait budgets used by the checks.
type Options struct {
	SystemNamespace   string
	WorkloadNamespace string
	PodName           string
	PodImage          string
	NodeHostname      string
	PodWait           time.Duration
	ScaleWait         time.Duration
	NodeDeleteWait    time.Duration
	PollInterval      time.Duration
}

// DefaultOptions returns the stock smoke-test settings.
func DefaultOptions() Options {
	return Options{
		SystemNamespace:   "kube-system",
		WorkloadNamespace: "default",
		PodName:           "test-pod",
		PodImage:          "busybox",
		NodeHostname:      "NODE_TO_DELETE",
		PodWait:           5 * time.Second,
		ScaleWait:         5 * time.Second,
		NodeDeleteWait:    30 * time.Second,
		PollInterval:      time.Second,
	}
}

// Probe issues the smoke checks through a Kubernetes clientset.
type Probe struct {
	client kubernetes.Interface
	opts   Options
}

// New creates a Probe.
func New(client kubernetes.Interface, opts Options) *Probe {
	return &Probe{
		client: client,
		opts:   opts,
	}
}

// waitFor polls cond every PollInterval until it holds or timeout elapses.
// Once the timeout has passed cond is evaluated one last time, so a check
// always observes the state at the end of its full wait.
func (p *Probe) waitFor(ctx context.Context, timeout time.Duration, cond wait.ConditionWithContextFunc) (bool, error) {
	err := wait.PollUntilContextTimeout(ctx, p.opts.PollInterval, timeout, false, cond)
	switch {
	case err == nil:
		return true, nil
	case !wait.Interrupted(err):
		return false, err
	case ctx.Err() != nil:
		return false, ctx.Err()
	}
	return cond(ctx)
}
