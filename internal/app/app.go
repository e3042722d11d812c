// Package app wires configuration into the components shared by the
// smoketest CLI and the server.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/daap14/clustersmoke/internal/config"
	"github.com/daap14/clustersmoke/internal/history"
	"github.com/daap14/clustersmoke/internal/k8s"
	"github.com/daap14/clustersmoke/internal/probe"
)

// SetupLogger installs a JSON slog handler writing to w as the default logger.
func SetupLogger(level string, w io.Writer) {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewK8sClient builds the Kubernetes client from configuration.
func NewK8sClient(cfg *config.Config) (*k8s.Client, error) {
	var opts []k8s.ClientOption
	if cfg.KubeconfigPath != "" {
		opts = append(opts, k8s.WithKubeconfig(cfg.KubeconfigPath))
	}
	return k8s.NewClient(opts...)
}

// ProbeOptions translates configuration into probe settings.
func ProbeOptions(cfg *config.Config) probe.Options {
	return probe.Options{
		SystemNamespace:   cfg.SystemNamespace,
		WorkloadNamespace: cfg.WorkloadNamespace,
		PodName:           cfg.ProbePodName,
		PodImage:          cfg.ProbePodImage,
		NodeHostname:      cfg.ResilienceNodeHostname,
		PodWait:           cfg.PodWait,
		ScaleWait:         cfg.ScaleWait,
		NodeDeleteWait:    cfg.NodeDeleteWait,
		PollInterval:      cfg.PollInterval,
	}
}

// Checks returns the configured subset of checks against client.
func Checks(cfg *config.Config, client *k8s.Client) ([]probe.Check, error) {
	p := probe.New(client.Clientset(), ProbeOptions(cfg))
	checks, err := probe.Select(p.Checks(), cfg.Checks)
	if err != nil {
		return nil, fmt.Errorf("selecting checks: %w", err)
	}
	return checks, nil
}

// History opens the run history: Postgres when DATABASE_URL is set,
// otherwise an in-memory store. The returned DB is nil in the latter case.
func History(ctx context.Context, cfg *config.Config) (history.Repository, *history.DB, error) {
	if cfg.DatabaseURL == "" {
		slog.Info("no DATABASE_URL configured; keeping run history in memory")
		return history.NewMemoryRepository(), nil, nil
	}

	db, err := history.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history database: %w", err)
	}
	return history.NewRepository(db.Pool()), db, nil
}
