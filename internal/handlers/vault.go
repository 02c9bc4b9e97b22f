package handlers

import (
	"net/http"

	"vaultmind/internal/service"
)

// VaultHandler serves the note analysis endpoints.
type VaultHandler struct {
	engine service.Engine
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(engine service.Engine) *VaultHandler {
	return &VaultHandler{engine: engine}
}

// Similar handles GET /api/notes/similar?path=&threshold=&limit=.
func (h *VaultHandler) Similar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	threshold, err := floatParam(r, "threshold")
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	resp, err := h.engine.FindSimilarNotes(ctx, service.SimilarRequest{
		Path:      r.URL.Query().Get("path"),
		Threshold: threshold,
		Limit:     limit,
	})
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Duplicates handles GET /api/notes/duplicates?threshold=.
func (h *VaultHandler) Duplicates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	threshold, err := floatParam(r, "threshold")
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	resp, err := h.engine.DetectDuplicateContent(ctx, service.DuplicatesRequest{Threshold: threshold})
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Backlinks handles GET /api/notes/backlinks?path=&threshold=&limit=.
func (h *VaultHandler) Backlinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	threshold, err := floatParam(r, "threshold")
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	resp, err := h.engine.SuggestMissingBacklinks(ctx, service.BacklinksRequest{
		Path:      r.URL.Query().Get("path"),
		Threshold: threshold,
		Limit:     limit,
	})
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Health handles GET /api/vault/health.
func (h *VaultHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.engine.AnalyzeVaultHealth(ctx)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, report)
}
