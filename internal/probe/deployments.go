package probe

import (
	"context"
	"fmt"
	"log/slog"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/daap14/clustersmoke/internal/k8s/template"
)

// DeploymentScaling bumps each deployment in the workload namespace by one
// replica and expects its ready replicas to match within ScaleWait.
func (p *Probe) DeploymentScaling(ctx context.Context) error {
	ns := p.opts.WorkloadNamespace
	deployments := p.client.AppsV1().Deployments(ns)

	list, err := deployments.List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("listing deployments in %s: %w", ns, err)
	}

	for _, d := range list.Items {
		// An unset replica count defaults to 1 on the API server.
		desired := int32(1)
		if d.Spec.Replicas != nil {
			desired = *d.Spec.Replicas
		}
		target := desired + 1

		patch, err := template.BuildReplicasPatch(target)
		if err != nil {
			return err
		}
		if _, err := deployments.Patch(ctx, d.Name, types.MergePatchType, patch, metav1.PatchOptions{}); err != nil {
			return fmt.Errorf("scaling deployment %s/%s: %w", ns, d.Name, err)
		}
		slog.Info("deployment scaled", "namespace", ns, "deployment", d.Name, "from", desired, "to", target)

		converged, err := p.waitFor(ctx, p.opts.ScaleWait, func(ctx context.Context) (bool, error) {
			got, err := deployments.Get(ctx, d.Name, metav1.GetOptions{})
			if err != nil {
				return false, fmt.Errorf("getting deployment %s/%s: %w", ns, d.Name, err)
			}
			return got.Status.ReadyReplicas == target, nil
		})
		if err != nil {
			return err
		}
		if !converged {
			return failf(CheckDeploymentScaling, "Deployment %s update failed", d.Name)
		}
		slog.Info("deployment updated successfully", "namespace", ns, "deployment", d.Name)
	}

	return nil
}
