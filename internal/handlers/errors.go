package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vaultmind/internal/contextutil"
	"vaultmind/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "request rejected", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(ErrorResponse{
			Error: validationErr.Error(),
			Field: validationErr.Field,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrCorpusTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, service.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, service.ErrFeatureDisabled):
		status = http.StatusNotImplemented
	}

	if status == http.StatusInternalServerError {
		logger.ErrorContext(ctx, "service error", "error", err)
		writeError(w, status, "Internal server error")
		return
	}
	logger.WarnContext(ctx, "service error", "error", err, "status", status)
	writeError(w, status, err.Error())
}

func invalidParam(name string, err error) error {
	return &service.ValidationError{Field: name, Message: fmt.Sprintf("malformed value: %v", err), Err: err}
}

// floatParam parses an optional float query parameter.
func floatParam(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, invalidParam(name, err)
	}
	return &v, nil
}

// intParam parses an optional integer query parameter, returning 0 when absent.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam(name, err)
	}
	return v, nil
}

// timeParam parses an optional RFC 3339 query parameter.
func timeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, invalidParam(name, err)
	}
	return &v, nil
}

// listParam collects a query parameter given repeatedly or as a
// comma-separated list. Empty items are dropped; nil when absent.
func listParam(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
