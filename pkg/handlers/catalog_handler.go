package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/auth"
	"github.com/knova-inc/knova-engine/pkg/services"
)

// CatalogHandler serves the fixed metadata tag catalog and the workspace list.
type CatalogHandler struct {
	catalogService services.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, logger: logger}
}

// RegisterRoutes registers the catalog handler's routes on the given mux.
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("GET /api/tags", mw.RequireAuth(h.Tags))
	mux.HandleFunc("GET /api/workspaces", mw.RequireAuth(h.Workspaces))
}

// Tags handles GET /api/tags requests.
func (h *CatalogHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalogService.ListTags(r.Context())
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: tags}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Workspaces handles GET /api/workspaces requests.
func (h *CatalogHandler) Workspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.catalogService.ListWorkspaces(r.Context())
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: workspaces}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
