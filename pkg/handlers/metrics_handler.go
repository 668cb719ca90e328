package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/auth"
	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/services"
)

// MetricsHandler serves adoption metrics to reviewers and admins.
type MetricsHandler struct {
	metricsService services.MetricsService
	logger         *zap.Logger
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(metricsService services.MetricsService, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService, logger: logger}
}

// RegisterRoutes registers the metrics handler's routes on the given mux.
func (h *MetricsHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("GET /api/metrics/adoption", mw.RequireRole(models.RoleReviewer, models.RoleAdmin)(h.Adoption))
}

// Adoption handles GET /api/metrics/adoption requests. Optional from/to
// query parameters (YYYY-MM-DD) bound the range; the default is the last
// 30 days.
func (h *MetricsHandler) Adoption(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	metrics, err := h.metricsService.Adoption(r.Context(), from, to)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: metrics}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
