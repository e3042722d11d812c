package probe

import (
	"context"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/daap14/clustersmoke/internal/k8s/template"
)

// SystemPods fails on the first pod in the system namespace that is not Running.
func (p *Probe) SystemPods(ctx context.Context) error {
	pods, err := p.client.CoreV1().Pods(p.opts.SystemNamespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("listing pods in %s: %w", p.opts.SystemNamespace, err)
	}

	for _, pod := range pods.Items {
		if pod.Status.Phase != corev1.PodRunning {
			return failf(CheckSystemPods, "Pod %s is not running", pod.Name)
		}
	}

	slog.Debug("system pods running", "namespace", p.opts.SystemNamespace, "pods", len(pods.Items))
	return nil
}

// Networking schedules a long-lived pod in the workload namespace and expects
// it to reach Running within PodWait. The pod is left in place.
func (p *Probe) Networking(ctx context.Context) error {
	ns, name := p.opts.WorkloadNamespace, p.opts.PodName
	pod := template.BuildSmokePod(template.PodParams{
		Name:      name,
		Namespace: ns,
		Image:     p.opts.PodImage,
	})

	if _, err := p.client.CoreV1().Pods(ns).Create(ctx, pod, metav1.CreateOptions{}); err != nil {
		return fmt.Errorf("creating pod %s/%s: %w", ns, name, err)
	}
	slog.Info("smoke pod created", "namespace", ns, "pod", name)

	running, err := p.waitFor(ctx, p.opts.PodWait, func(ctx context.Context) (bool, error) {
		got, err := p.client.CoreV1().Pods(ns).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, fmt.Errorf("getting pod %s/%s: %w", ns, name, err)
		}
		return got.Status.Phase == corev1.PodRunning, nil
	})
	if err != nil {
		return err
	}
	if !running {
		return failf(CheckNetworking, "Test pod %s is not running", name)
	}
	return nil
}
