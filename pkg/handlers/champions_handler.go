package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/auth"
	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/services"
)

// ChampionsHandler serves the champion directory and admin assignment.
type ChampionsHandler struct {
	championService services.ChampionService
	logger          *zap.Logger
}

// NewChampionsHandler creates a new ChampionsHandler.
func NewChampionsHandler(championService services.ChampionService, logger *zap.Logger) *ChampionsHandler {
	return &ChampionsHandler{championService: championService, logger: logger}
}

// RegisterRoutes registers the champion handler's routes on the given mux.
func (h *ChampionsHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("GET /api/champions", mw.RequireAuth(h.List))
	mux.HandleFunc("POST /api/champions", mw.RequireRole(models.RoleAdmin)(h.Assign))
}

type assignChampionRequest struct {
	UserID int64  `json:"user_id"`
	Region string `json:"region"`
}

// List handles GET /api/champions requests. An optional region query
// parameter filters the directory.
func (h *ChampionsHandler) List(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")

	champions, err := h.championService.List(r.Context(), region)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: champions}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Assign handles POST /api/champions requests, promoting a user to champion
// for a region. Admin only.
func (h *ChampionsHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignChampionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.UserID <= 0 || strings.TrimSpace(req.Region) == "" {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "user_id and region are required")
		return
	}

	if err := h.championService.Assign(r.Context(), req.UserID, strings.TrimSpace(req.Region)); err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: map[string]any{
		"user_id": req.UserID,
		"region":  strings.TrimSpace(req.Region),
	}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
