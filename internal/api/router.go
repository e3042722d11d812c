package api

import (
	"context"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/clustersmoke/internal/api/handler"
	"github.com/daap14/clustersmoke/internal/api/middleware"
	"github.com/daap14/clustersmoke/internal/auth"
	"github.com/daap14/clustersmoke/internal/history"
	"github.com/daap14/clustersmoke/internal/k8s"
	"github.com/daap14/clustersmoke/internal/runner"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	K8sChecker  k8s.HealthChecker
	DBPinger    handler.DBPinger
	Version     string
	Repo        history.Repository
	Launcher    runner.Launcher
	AuthService *auth.Service
	// RunCtx bounds runs started over HTTP; it is cancelled on shutdown.
	RunCtx context.Context
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.K8sChecker, deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if deps.Repo != nil && deps.Launcher != nil {
		runCtx := deps.RunCtx
		if runCtx == nil {
			runCtx = context.Background()
		}
		runHandler := handler.NewRunHandler(deps.Repo, deps.Launcher, runCtx)
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", runHandler.List)
			r.Get("/current", runHandler.Current)
			r.Get("/{id}", runHandler.GetByID)
			r.Group(func(r chi.Router) {
				if deps.AuthService != nil {
					r.Use(middleware.APIKey(deps.AuthService))
				}
				r.Post("/", runHandler.Start)
			})
		})
	}

	return r
}
