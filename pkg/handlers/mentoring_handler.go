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

// MentoringHandler handles mentoring requests between users and champions.
type MentoringHandler struct {
	mentoringService services.MentoringService
	usageService     services.UsageService
	logger           *zap.Logger
}

// NewMentoringHandler creates a new MentoringHandler.
func NewMentoringHandler(mentoringService services.MentoringService, usageService services.UsageService, logger *zap.Logger) *MentoringHandler {
	return &MentoringHandler{
		mentoringService: mentoringService,
		usageService:     usageService,
		logger:           logger,
	}
}

// RegisterRoutes registers the mentoring handler's routes on the given mux.
func (h *MentoringHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("POST /api/mentoring", mw.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/mentoring/inbox", mw.RequireRole(models.RoleChampion, models.RoleAdmin)(h.Inbox))
	mux.HandleFunc("PATCH /api/mentoring/{id}", mw.RequireRole(models.RoleChampion, models.RoleAdmin)(h.UpdateStatus))
}

type createMentoringRequest struct {
	ChampionUserID int64  `json:"champion_user_id"`
	Topic          string `json:"topic"`
	Message        string `json:"message"`
}

type updateMentoringRequest struct {
	Status string `json:"status"`
}

// Create handles POST /api/mentoring requests.
func (h *MentoringHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req createMentoringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.ChampionUserID <= 0 || strings.TrimSpace(req.Topic) == "" {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "champion_user_id and topic are required")
		return
	}

	requestID, err := h.mentoringService.CreateRequest(r.Context(), userID, req.ChampionUserID, strings.TrimSpace(req.Topic), req.Message)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: map[string]any{
		"id":     requestID,
		"status": string(models.MentoringOpen),
	}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Inbox handles GET /api/mentoring/inbox requests for the signed-in champion.
func (h *MentoringHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	requests, err := h.mentoringService.Inbox(r.Context(), userID)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: requests}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateStatus handles PATCH /api/mentoring/{id} requests. Only the targeted
// champion may move a request through its states.
func (h *MentoringHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID, ok := ParseRequestID(w, r, h.logger)
	if !ok {
		return
	}
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req updateMentoringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	status, err := h.mentoringService.UpdateStatus(r.Context(), requestID, userID, req.Status)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if status == models.MentoringResolved {
		h.usageService.Track(r.Context(), userID, models.EventComment, nil, map[string]any{
			"mentoring_request_id": requestID,
		})
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]any{
		"id":     requestID,
		"status": string(status),
	}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
