package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/daap14/clustersmoke/internal/app"
	"github.com/daap14/clustersmoke/internal/config"
	"github.com/daap14/clustersmoke/internal/report"
	"github.com/daap14/clustersmoke/internal/runner"
)

const (
	exitFailed = 1
	exitSetup  = 2
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(exitSetup)
	}

	// Logs go to stderr so stdout carries only the report.
	app.SetupLogger(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg))
}

func run(ctx context.Context, cfg *config.Config) int {
	client, err := app.NewK8sClient(cfg)
	if err != nil {
		slog.Error("kubernetes client initialization failed", "error", err)
		return exitSetup
	}

	checks, err := app.Checks(cfg, client)
	if err != nil {
		slog.Error("invalid check selection", "error", err)
		return exitSetup
	}

	repo, db, err := app.History(ctx, cfg)
	if err != nil {
		slog.Error("failed to open run history", "error", err)
		return exitSetup
	}
	if db != nil {
		defer db.Close()
	}

	result, err := runner.New(checks, repo).Run(ctx, report.TriggerCLI)
	if err != nil {
		slog.Error("failed to record run", "error", err)
	}

	if err := report.Write(os.Stdout, result, cfg.ReportFormat); err != nil {
		slog.Error("failed to write report", "error", err)
		return exitSetup
	}

	if !result.Passed() {
		return exitFailed
	}
	return 0
}
