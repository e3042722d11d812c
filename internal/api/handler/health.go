package handler

import (
	"context"
	"net/http"

	"github.com/daap14/clustersmoke/internal/api/middleware"
	"github.com/daap14/clustersmoke/internal/api/response"
	"github.com/daap14/clustersmoke/internal/k8s"
)

// DBPinger checks that the history database is reachable.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	k8sChecker k8s.HealthChecker
	dbPinger   DBPinger
	version    string
}

// NewHealthHandler creates a new HealthHandler. dbPinger may be nil when run
// history is kept in memory.
func NewHealthHandler(checker k8s.HealthChecker, dbPinger DBPinger, version string) *HealthHandler {
	return &HealthHandler{
		k8sChecker: checker,
		dbPinger:   dbPinger,
		version:    version,
	}
}

type kubernetesStatus struct {
	Connected bool    `json:"connected"`
	Version   *string `json:"version"`
}

type databaseStatus struct {
	Connected bool `json:"connected"`
}

type healthData struct {
	Status     string           `json:"status"`
	Version    string           `json:"version"`
	Kubernetes kubernetesStatus `json:"kubernetes"`
	Database   *databaseStatus  `json:"database,omitempty"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	connectivity := h.k8sChecker.CheckConnectivity(r.Context())

	status := "healthy"
	var k8sVersion *string

	if connectivity.Connected {
		k8sVersion = &connectivity.Version
	} else {
		status = "degraded"
	}

	data := healthData{
		Status:  status,
		Version: h.version,
		Kubernetes: kubernetesStatus{
			Connected: connectivity.Connected,
			Version:   k8sVersion,
		},
	}

	if h.dbPinger != nil {
		dbOK := h.dbPinger.Ping(r.Context()) == nil
		if !dbOK {
			data.Status = "degraded"
		}
		data.Database = &databaseStatus{Connected: dbOK}
	}

	response.Success(w, http.StatusOK, data, requestID)
}
