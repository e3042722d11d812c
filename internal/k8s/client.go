package k8s

import (
	"context"
	"fmt"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Client provides access to the core Kubernetes API of the cluster under test.
type Client struct {
	clientset kubernetes.Interface
	config    *rest.Config
}

// ConnectivityStatus represents the result of a Kubernetes connectivity check.
type ConnectivityStatus struct {
	Connected bool
	Version   string
}

// ClientOption configures the Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	kubeconfigPath string
}

// WithKubeconfig sets the kubeconfig file path for out-of-cluster access.
func WithKubeconfig(path string) ClientOption {
	return func(o *clientOptions) {
		o.kubeconfigPath = path
	}
}

// NewClient creates a new Kubernetes client.
// An explicit kubeconfig wins; otherwise in-cluster configuration is tried,
// then the default kubeconfig loading rules ($KUBECONFIG, ~/.kube/config).
func NewClient(opts ...ClientOption) (*Client, error) {
	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}

	cfg, err := buildConfig(o.kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("building kubernetes config: %w", err)
	}

	cs, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating clientset: %w", err)
	}

	return &Client{
		clientset: cs,
		config:    cfg,
	}, nil
}

// NewForClientset wraps an existing clientset, typically a fake one.
func NewForClientset(cs kubernetes.Interface) *Client {
	return &Client{clientset: cs}
}

// Clientset returns the underlying typed Kubernetes clientset.
func (c *Client) Clientset() kubernetes.Interface {
	return c.clientset
}

// Host returns the API server address, or "" when built from a bare clientset.
func (c *Client) Host() string {
	if c.config == nil {
		return ""
	}
	return c.config.Host
}

// CheckConnectivity verifies that the Kubernetes API server is reachable
// and returns the server version. The discovery client does not take a
// context, so ctx is currently unused.
func (c *Client) CheckConnectivity(ctx context.Context) ConnectivityStatus {
	info, err := c.clientset.Discovery().ServerVersion()
	if err != nil {
		return ConnectivityStatus{Connected: false}
	}
	return ConnectivityStatus{
		Connected: true,
		Version:   info.GitVersion,
	}
}

func buildConfig(kubeconfigPath string) (*rest.Config, error) {
	if kubeconfigPath != "" {
		cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading kubeconfig from %s: %w", kubeconfigPath, err)
		}
		return cfg, nil
	}

	cfg, err := rest.InClusterConfig()
	if err == nil {
		return cfg, nil
	}

	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		clientcmd.NewDefaultClientConfigLoadingRules(),
		&clientcmd.ConfigOverrides{},
	)
	cfg, loadErr := loader.ClientConfig()
	if loadErr != nil {
		return nil, fmt.Errorf("not running in-cluster (%v) and no usable default kubeconfig: %w", err, loadErr)
	}
	return cfg, nil
}
