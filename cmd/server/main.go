package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daap14/clustersmoke/internal/api"
	"github.com/daap14/clustersmoke/internal/api/handler"
	"github.com/daap14/clustersmoke/internal/app"
	"github.com/daap14/clustersmoke/internal/auth"
	"github.com/daap14/clustersmoke/internal/config"
	"github.com/daap14/clustersmoke/internal/runner"
	"github.com/daap14/clustersmoke/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	app.SetupLogger(cfg.LogLevel, os.Stdout)

	// Cancelled on shutdown; bounds in-flight runs and the scheduler.
	runCtx, cancelRuns := context.WithCancel(context.Background())
	defer cancelRuns()

	k8sClient, err := app.NewK8sClient(cfg)
	if err != nil {
		slog.Error("kubernetes client initialization failed", "error", err)
		os.Exit(1)
	}

	checks, err := app.Checks(cfg, k8sClient)
	if err != nil {
		slog.Error("invalid check selection", "error", err)
		os.Exit(1)
	}

	repo, db, err := app.History(runCtx, cfg)
	if err != nil {
		slog.Error("failed to open run history", "error", err)
		os.Exit(1)
	}
	var dbPinger handler.DBPinger
	if db != nil {
		defer db.Close()
		dbPinger = db
	}

	authService, err := auth.Bootstrap(cfg.APIKeyHash, cfg.BcryptCost)
	if err != nil {
		slog.Error("failed to set up API key", "error", err)
		os.Exit(1)
	}

	smokeRunner := runner.New(checks, repo)

	if cfg.RunInterval > 0 {
		go scheduler.New(smokeRunner, cfg.RunInterval).Start(runCtx)
	}

	router := api.NewRouter(api.RouterDeps{
		K8sChecker:  k8sClient,
		DBPinger:    dbPinger,
		Version:     cfg.Version,
		Repo:        repo,
		Launcher:    smokeRunner,
		AuthService: authService,
		RunCtx:      runCtx,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting smoke server", "port", cfg.Port, "version", cfg.Version, "checks", len(checks))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	cancelRuns()
	smokeRunner.Wait()

	slog.Info("server stopped gracefully")
}
