package template

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Defaults for the networking smoke pod.
const (
	defaultPodName   = "test-pod"
	defaultPodImage  = "busybox"
	containerName    = "test-container"
	managedByLabel   = "app.kubernetes.io/managed-by"
	managedByValue   = "clustersmoke"
	sleepSeconds     = "3600"
	defaultNamespace = metav1.NamespaceDefault
)

// PodParams configures the networking smoke pod.
type PodParams struct {
	Name      string
	Namespace string
	Image     string
}

// BuildSmokePod creates a single-container pod that sleeps for an hour.
// It only has to be schedulable and start; it serves no traffic.
func BuildSmokePod(params PodParams) *corev1.Pod {
	if params.Name == "" {
		params.Name = defaultPodName
	}
	if params.Namespace == "" {
		params.Namespace = defaultNamespace
	}
	if params.Image == "" {
		params.Image = defaultPodImage
	}

	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      params.Name,
			Namespace: params.Namespace,
			Labels: map[string]string{
				managedByLabel: managedByValue,
			},
		},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{
				{
					Name:    containerName,
					Image:   params.Image,
					Command: []string{"sleep", sleepSeconds},
				},
			},
		},
	}
}
