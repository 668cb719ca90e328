package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/auth"
	"github.com/knova-inc/knova-engine/pkg/services"
)

// RecommendationsHandler serves per-user asset recommendations.
type RecommendationsHandler struct {
	recommendationService services.RecommendationService
	logger                *zap.Logger
}

// NewRecommendationsHandler creates a new RecommendationsHandler.
func NewRecommendationsHandler(recommendationService services.RecommendationService, logger *zap.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{recommendationService: recommendationService, logger: logger}
}

// RegisterRoutes registers the recommendation handler's routes on the given mux.
func (h *RecommendationsHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("GET /api/recommendations", mw.RequireAuth(h.List))
}

// List handles GET /api/recommendations requests. An optional workspace_id
// query parameter scopes the candidates.
func (h *RecommendationsHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaceID := queryInt64(r, "workspace_id")

	recs, err := h.recommendationService.Recommend(r.Context(), workspaceID)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: recs}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
