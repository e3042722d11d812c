package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	KubeconfigPath string `envconfig:"KUBECONFIG_PATH" default:""`

	SystemNamespace        string        `envconfig:"SYSTEM_NAMESPACE" default:"kube-system"`
	WorkloadNamespace      string        `envconfig:"WORKLOAD_NAMESPACE" default:"default"`
	ProbePodName           string        `envconfig:"PROBE_POD_NAME" default:"test-pod"`
	ProbePodImage          string        `envconfig:"PROBE_POD_IMAGE" default:"busybox"`
	ResilienceNodeHostname string        `envconfig:"RESILIENCE_NODE_HOSTNAME" default:"NODE_TO_DELETE"`
	PodWait                time.Duration `envconfig:"POD_WAIT" default:"5s"`
	ScaleWait              time.Duration `envconfig:"SCALE_WAIT" default:"5s"`
	NodeDeleteWait         time.Duration `envconfig:"NODE_DELETE_WAIT" default:"30s"`
	PollInterval           time.Duration `envconfig:"POLL_INTERVAL" default:"1s"`
	Checks                 []string      `envconfig:"CHECKS" default:""`
	ReportFormat           string        `envconfig:"REPORT_FORMAT" default:"yaml"`

	DatabaseURL string        `envconfig:"DATABASE_URL" default:""`
	Port        int           `envconfig:"PORT" default:"8080"`
	Version     string        `envconfig:"VERSION" default:"dev"`
	APIKeyHash  string        `envconfig:"API_KEY_HASH" default:""`
	BcryptCost  int           `envconfig:"BCRYPT_COST" default:"12"`
	RunInterval time.Duration `envconfig:"RUN_INTERVAL" default:"0"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	for name, d := range map[string]time.Duration{
		"POD_WAIT":         c.PodWait,
		"SCALE_WAIT":       c.ScaleWait,
		"NODE_DELETE_WAIT": c.NodeDeleteWait,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.RunInterval < 0 {
		return fmt.Errorf("RUN_INTERVAL must not be negative, got %s", c.RunInterval)
	}
	switch c.ReportFormat {
	case "yaml", "json":
	default:
		return fmt.Errorf("REPORT_FORMAT must be yaml or json, got %q", c.ReportFormat)
	}
	return nil
}
