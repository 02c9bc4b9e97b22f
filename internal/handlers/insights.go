package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"vaultmind/internal/contextutil"
	"vaultmind/internal/memory"
	"vaultmind/internal/service"
)

// InsightHandler serves the concept memory endpoints.
type InsightHandler struct {
	engine service.Engine
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(engine service.Engine) *InsightHandler {
	return &InsightHandler{engine: engine}
}

// Remember handles POST /api/insights.
func (h *InsightHandler) Remember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.RememberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.engine.RememberInsight(ctx, req)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, resp)
}

// Recall handles GET /api/insights?concept=&days_back=.
func (h *InsightHandler) Recall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	daysBack, err := intParam(r, "days_back")
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	resp, err := h.engine.RecallConceptMemory(ctx, service.RecallRequest{
		Concept:  r.URL.Query().Get("concept"),
		DaysBack: daysBack,
	})
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Forgotten handles GET /api/insights/forgotten?max_results=&concepts=.
// Concepts may be repeated or comma-separated.
func (h *InsightHandler) Forgotten(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	maxResults, err := intParam(r, "max_results")
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	resp, err := h.engine.SurfaceForgottenInsights(ctx, service.SurfaceRequest{
		MaxResults: maxResults,
		Concepts:   listParam(r, "concepts"),
	})
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Gaps handles GET /api/insights/gaps?min_recalls=&limit=.
func (h *InsightHandler) Gaps(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.GapsRequest
	var err error
	if req.MinRecalls, err = intParam(r, "min_recalls"); err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	if req.Limit, err = intParam(r, "limit"); err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	resp, err := h.engine.IdentifyKnowledgeGaps(ctx, req)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Review handles GET /api/insights/review?min_importance=&limit=.
func (h *InsightHandler) Review(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.ReviewRequest
	var err error
	if req.MinImportance, err = floatParam(r, "min_importance"); err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	if req.Limit, err = intParam(r, "limit"); err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	resp, err := h.engine.SuggestReviewSchedule(ctx, req)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Summary handles GET /api/insights/summary.
func (h *InsightHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.engine.GetKnowledgeSummary(ctx)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Search handles GET /api/insights/search.
func (h *InsightHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := searchFilter(r)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	resp, err := h.engine.SearchInsights(ctx, filter)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

func searchFilter(r *http.Request) (memory.Filter, error) {
	q := r.URL.Query()
	f := memory.Filter{
		Concept:  q.Get("concept"),
		Category: q.Get("category"),
	}

	var err error
	if f.Since, err = timeParam(r, "since"); err != nil {
		return f, err
	}
	if f.Until, err = timeParam(r, "until"); err != nil {
		return f, err
	}
	if f.MinImportance, err = floatParam(r, "min_importance"); err != nil {
		return f, err
	}
	if f.MaxImportance, err = floatParam(r, "max_importance"); err != nil {
		return f, err
	}
	if f.Limit, err = intParam(r, "limit"); err != nil {
		return f, err
	}
	return f, nil
}

// Forget handles DELETE /api/insights/{id}.
func (h *InsightHandler) Forget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		handleServiceError(ctx, w, invalidParam("id", err))
		return
	}

	if err := h.engine.ForgetInsight(ctx, id); err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
