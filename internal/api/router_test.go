package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/clustersmoke/internal/api"
	"github.com/daap14/clustersmoke/internal/auth"
	"github.com/daap14/clustersmoke/internal/history"
	"github.com/daap14/clustersmoke/internal/k8s"
	"github.com/daap14/clustersmoke/internal/probe"
	"github.com/daap14/clustersmoke/internal/runner"
)

type staticChecker struct{}

func (staticChecker) CheckConnectivity(context.Context) k8s.ConnectivityStatus {
	return k8s.ConnectivityStatus{Connected: true, Version: "v1.31.0"}
}

func newTestRouter(t *testing.T) (http.Handler, string, *runner.Runner) {
	t.Helper()
	rawKey, hash, err := auth.GenerateKey(4)
	require.NoError(t, err)

	repo := history.NewMemoryRepository()
	checks := []probe.Check{{Name: "noop", Run: func(context.Context) error { return nil }}}
	r := runner.New(checks, repo)

	router := api.NewRouter(api.RouterDeps{
		K8sChecker:  staticChecker{},
		Version:     "test",
		Repo:        repo,
		Launcher:    r,
		AuthService: auth.NewService(hash),
		RunCtx:      context.Background(),
	})
	return router, rawKey, r
}

func TestRouter_Health(t *testing.T) {
	router, _, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_StartRequiresAPIKey(t *testing.T) {
	router, rawKey, r := newTestRouter(t)

	tests := []struct {
		name string
		key  string
		want int
	}{
		{name: "missing key", key: "", want: http.StatusUnauthorized},
		{name: "wrong key", key: "smoke_wrong", want: http.StatusUnauthorized},
		{name: "valid key", key: rawKey, want: http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/runs", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
	r.Wait()
}

func TestRouter_ReadsDoNotRequireAPIKey(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, path := range []string{"/runs", "/runs/current"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_StartedRunIsRecorded(t *testing.T) {
	router, rawKey, r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/runs", nil)
	req.Header.Set("X-API-Key", rawKey)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code)
	r.Wait()

	location := w.Header().Get("Location")
	require.NotEmpty(t, location)

	req = httptest.NewRequest(http.MethodGet, location, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"check":"noop"`)
}
