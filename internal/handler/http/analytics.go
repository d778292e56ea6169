package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/analytics"
	"github.com/fieldsight/fieldsight-backend-go/internal/handler/http/response"
)

// AnalyticsHandler exposes the project progress analysis log.
type AnalyticsHandler interface {
	ListByProject(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsSvc analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsSvc analytics.Service) AnalyticsHandler {
	return &analyticsHandlerImpl{analyticsSvc: analyticsSvc}
}

// ListByProject returns a project's analyses, newest first
func (h *analyticsHandlerImpl) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if projectID == "" {
		response.BadRequest(w, "Project ID is required", nil)
		return
	}

	limit := getIntQueryParam(r, "limit", 30)

	analyses, err := h.analyticsSvc.ListProjectAnalytics(r.Context(), projectID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, analyses)
}
