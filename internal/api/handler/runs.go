package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daap14/clustersmoke/internal/api/middleware"
	"github.com/daap14/clustersmoke/internal/api/response"
	"github.com/daap14/clustersmoke/internal/history"
	"github.com/daap14/clustersmoke/internal/report"
	"github.com/daap14/clustersmoke/internal/runner"
)

// resultResponse is the API representation of a single check outcome.
type resultResponse struct {
	Check      string `json:"check"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	StartedAt  string `json:"startedAt"`
	DurationMS int64  `json:"durationMs"`
}

// runResponse is the API representation of a smoke run.
type runResponse struct {
	ID         string           `json:"id"`
	Trigger    string           `json:"trigger"`
	Passed     bool             `json:"passed"`
	Summary    report.Summary   `json:"summary"`
	StartedAt  string           `json:"startedAt"`
	FinishedAt string           `json:"finishedAt"`
	Results    []resultResponse `json:"results"`
}

func toRunResponse(run *report.Run) runResponse {
	results := make([]resultResponse, 0, len(run.Results))
	for _, res := range run.Results {
		results = append(results, resultResponse{
			Check:      res.Check,
			Status:     res.Status,
			Message:    res.Message,
			StartedAt:  res.StartedAt.UTC().Format(time.RFC3339),
			DurationMS: res.Duration.Milliseconds(),
		})
	}
	return runResponse{
		ID:         run.ID.String(),
		Trigger:    run.Trigger,
		Passed:     run.Passed(),
		Summary:    run.Summary(),
		StartedAt:  run.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt: run.FinishedAt.UTC().Format(time.RFC3339),
		Results:    results,
	}
}

type startedResponse struct {
	ID string `json:"id"`
}

type currentResponse struct {
	Running bool    `json:"running"`
	ID      *string `json:"id"`
}

// RunHandler handles smoke run endpoints.
type RunHandler struct {
	repo     history.Repository
	launcher runner.Launcher
	runCtx   context.Context
}

// NewRunHandler creates a new RunHandler. Runs started over HTTP are bound
// to runCtx so they outlive the triggering request.
func NewRunHandler(repo history.Repository, launcher runner.Launcher, runCtx context.Context) *RunHandler {
	return &RunHandler{
		repo:     repo,
		launcher: launcher,
		runCtx:   runCtx,
	}
}

// Start handles POST /runs.
func (h *RunHandler) Start(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := h.launcher.Start(h.runCtx, report.TriggerAPI)
	if err != nil {
		if errors.Is(err, runner.ErrBusy) {
			response.Err(w, http.StatusConflict, "RUN_IN_PROGRESS", "A smoke run is already in progress", requestID)
			return
		}
		slog.Error("failed to start run", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start run", requestID)
		return
	}

	w.Header().Set("Location", "/runs/"+id.String())
	response.Success(w, http.StatusAccepted, startedResponse{ID: id.String()}, requestID)
}

// Current handles GET /runs/current.
func (h *RunHandler) Current(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	data := currentResponse{}
	if id, ok := h.launcher.Current(); ok {
		s := id.String()
		data.Running, data.ID = true, &s
	}

	response.Success(w, http.StatusOK, data, requestID)
}

// List handles GET /runs.
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	limit := history.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > history.MaxLimit {
			response.Err(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer between 1 and 100", requestID)
			return
		}
		limit = n
	}

	runs, err := h.repo.List(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list runs", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list runs", requestID)
		return
	}

	items := make([]runResponse, 0, len(runs))
	for i := range runs {
		items = append(items, toRunResponse(&runs[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), limit, requestID)
}

// GetByID handles GET /runs/{id}.
func (h *RunHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "Run ID must be a valid UUID", requestID)
		return
	}

	run, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Run not found", requestID)
			return
		}
		slog.Error("failed to get run", "error", err, "id", id.String())
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get run", requestID)
		return
	}

	response.Success(w, http.StatusOK, toRunResponse(run), requestID)
}
