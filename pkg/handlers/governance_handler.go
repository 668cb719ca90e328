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

// GovernanceHandler handles the reviewer-facing workflow endpoints: review
// queue, decisions, revalidation, and the audit trail.
type GovernanceHandler struct {
	governanceService services.GovernanceService
	lifecycleService  services.LifecycleService
	usageService      services.UsageService
	logger            *zap.Logger
}

// NewGovernanceHandler creates a new GovernanceHandler.
func NewGovernanceHandler(
	governanceService services.GovernanceService,
	lifecycleService services.LifecycleService,
	usageService services.UsageService,
	logger *zap.Logger,
) *GovernanceHandler {
	return &GovernanceHandler{
		governanceService: governanceService,
		lifecycleService:  lifecycleService,
		usageService:      usageService,
		logger:            logger,
	}
}

// RegisterRoutes registers the governance handler's routes on the given mux.
// All routes require the reviewer or admin role.
func (h *GovernanceHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	review := mw.RequireRole(models.RoleReviewer, models.RoleAdmin)

	mux.HandleFunc("GET /api/governance/pending", review(h.Pending))
	mux.HandleFunc("GET /api/governance/content", review(h.ByStatus))
	mux.HandleFunc("POST /api/governance/content/{id}/approve", review(h.Approve))
	mux.HandleFunc("POST /api/governance/content/{id}/reject", review(h.Reject))
	mux.HandleFunc("POST /api/governance/content/{id}/revalidate", review(h.Revalidate))
	mux.HandleFunc("GET /api/governance/content/{id}/audit", review(h.AuditTrail))
	mux.HandleFunc("GET /api/governance/content/{id}/actions", review(h.Actions))
}

type decisionRequest struct {
	Comments string   `json:"comments"`
	Outcome  string   `json:"outcome"`
	Issues   []string `json:"issues"`
}

type revalidateRequest struct {
	Notes string `json:"notes"`
}

// Pending handles GET /api/governance/pending requests. An optional
// workspace_id query parameter narrows the queue.
func (h *GovernanceHandler) Pending(w http.ResponseWriter, r *http.Request) {
	workspaceID := queryInt64(r, "workspace_id")

	assets, err := h.governanceService.ListPending(r.Context(), workspaceID)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: assets}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ByStatus handles GET /api/governance/content requests, filtering by the
// status query parameter.
func (h *GovernanceHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if _, err := models.ParseAssetStatus(strings.ToLower(strings.TrimSpace(status))); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_status", "Unknown asset status")
		return
	}

	assets, err := h.governanceService.ListByStatus(r.Context(), status)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: assets}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Approve handles POST /api/governance/content/{id}/approve requests.
func (h *GovernanceHandler) Approve(w http.ResponseWriter, r *http.Request) {
	assetID, ok := ParseAssetID(w, r, h.logger)
	if !ok {
		return
	}
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.lifecycleService.Approve(r.Context(), assetID, userID, req.Comments, req.Outcome, req.Issues); err != nil {
		RespondError(w, h.logger, err)
		return
	}

	h.usageService.Track(r.Context(), userID, models.EventApprove, &assetID, nil)

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": string(models.StatusPublished)}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Reject handles POST /api/governance/content/{id}/reject requests.
func (h *GovernanceHandler) Reject(w http.ResponseWriter, r *http.Request) {
	assetID, ok := ParseAssetID(w, r, h.logger)
	if !ok {
		return
	}
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.lifecycleService.Reject(r.Context(), assetID, userID, req.Comments); err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": string(models.StatusRejected)}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Revalidate handles POST /api/governance/content/{id}/revalidate requests,
// resetting the review clock on an aged asset.
func (h *GovernanceHandler) Revalidate(w http.ResponseWriter, r *http.Request) {
	assetID, ok := ParseAssetID(w, r, h.logger)
	if !ok {
		return
	}
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req revalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.lifecycleService.Revalidate(r.Context(), assetID, userID, req.Notes); err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": string(models.StatusPublished)}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// AuditTrail handles GET /api/governance/content/{id}/audit requests.
func (h *GovernanceHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	assetID, ok := ParseAssetID(w, r, h.logger)
	if !ok {
		return
	}

	entries, err := h.governanceService.AuditTrail(r.Context(), assetID)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: entries}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Actions handles GET /api/governance/content/{id}/actions requests,
// returning the recorded review decisions for an asset.
func (h *GovernanceHandler) Actions(w http.ResponseWriter, r *http.Request) {
	assetID, ok := ParseAssetID(w, r, h.logger)
	if !ok {
		return
	}

	actions, err := h.governanceService.Actions(r.Context(), assetID)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: actions}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
