package probe

import (
	"context"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NodeReadiness fails on the first node whose Ready condition is not True.
// Nodes that report no Ready condition at all are not judged.
func (p *Probe) NodeReadiness(ctx context.Context) error {
	nodes, err := p.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("listing nodes: %w", err)
	}

	for _, node := range nodes.Items {
		for _, cond := range node.Status.Conditions {
			if cond.Type == corev1.NodeReady && cond.Status != corev1.ConditionTrue {
				return failf(CheckNodeReadiness, "Node %s is not ready", node.Name)
			}
		}
	}

	slog.Debug("all nodes ready", "nodes", len(nodes.Items))
	return nil
}

// NodeResilience deletes every node labelled with the configured hostname and
// expects it to disappear from the node list within NodeDeleteWait.
func (p *Probe) NodeResilience(ctx context.Context) error {
	nodes, err := p.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("listing nodes: %w", err)
	}

	for _, node := range nodes.Items {
		if node.Labels[corev1.LabelHostname] != p.opts.NodeHostname {
			continue
		}

		name := node.Name
		slog.Info("deleting node", "node", name)
		if err := p.client.CoreV1().Nodes().Delete(ctx, name, metav1.DeleteOptions{}); err != nil {
			return fmt.Errorf("deleting node %s: %w", name, err)
		}

		gone, err := p.waitFor(ctx, p.opts.NodeDeleteWait, func(ctx context.Context) (bool, error) {
			return p.nodeAbsent(ctx, name)
		})
		if err != nil {
			return err
		}
		if !gone {
			return failf(CheckNodeResilience, "Node %s deletion failed", name)
		}
		slog.Info("node removed from cluster", "node", name)
	}

	return nil
}

func (p *Probe) nodeAbsent(ctx context.Context, name string) (bool, error) {
	nodes, err := p.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return false, fmt.Errorf("listing nodes: %w", err)
	}
	for _, n := range nodes.Items {
		if n.Name == name {
			return false, nil
		}
	}
	return true, nil
}
