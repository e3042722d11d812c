package probe

import (
	"context"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ServiceReachability fails on the first service, in any namespace, that has
// no load-balancer ingress address.
func (p *Probe) ServiceReachability(ctx context.Context) error {
	services, err := p.client.CoreV1().Services(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("listing services: %w", err)
	}

	for _, svc := range services.Items {
		ingress := svc.Status.LoadBalancer.Ingress
		if len(ingress) == 0 {
			return failf(CheckServiceReachability, "Service %s is not accessible", svc.Name)
		}
		slog.Info("service accessible",
			"namespace", svc.Namespace,
			"service", svc.Name,
			"address", ingressAddress(ingress[0]),
		)
	}

	return nil
}

func ingressAddress(in corev1.LoadBalancerIngress) string {
	if in.IP != "" {
		return in.IP
	}
	return in.Hostname
}
