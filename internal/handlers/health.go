package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"vaultmind/internal/contextutil"
	"vaultmind/internal/service"
)

// HealthHandler handles HTTP requests for liveness checks.
type HealthHandler struct {
	engine             service.Engine
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(engine service.Engine) *HealthHandler {
	return &HealthHandler{
		engine:             engine,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	Capabilities service.Capabilities `json:"capabilities"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP reports collaborator liveness.
// Returns 200 OK if healthy, 503 Service Unavailable otherwise.
// Disabled features do not make the service unhealthy.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	status := h.engine.Status(checkCtx)

	response := HealthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Capabilities: status.Capabilities,
		Checks:       status.Components,
	}
	httpStatus := http.StatusOK
	if !status.Healthy {
		response.Status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
		for name, check := range status.Components {
			if check != "ok" && check != "disabled" {
				response.Issues = append(response.Issues, name+"_unavailable")
			}
		}
		sort.Strings(response.Issues)
		logger.WarnContext(ctx, "health check failed", "issues", response.Issues)
	}

	writeJSON(ctx, w, httpStatus, response)
}
