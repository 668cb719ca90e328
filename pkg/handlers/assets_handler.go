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

// AssetsHandler handles knowledge asset browsing and authoring endpoints.
type AssetsHandler struct {
	assetService     services.AssetService
	lifecycleService services.LifecycleService
	usageService     services.UsageService
	logger           *zap.Logger
}

// NewAssetsHandler creates a new AssetsHandler.
func NewAssetsHandler(
	assetService services.AssetService,
	lifecycleService services.LifecycleService,
	usageService services.UsageService,
	logger *zap.Logger,
) *AssetsHandler {
	return &AssetsHandler{
		assetService:     assetService,
		lifecycleService: lifecycleService,
		usageService:     usageService,
		logger:           logger,
	}
}

// RegisterRoutes registers the asset handler's routes on the given mux.
func (h *AssetsHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("GET /api/assets", mw.RequireAuth(h.List))
	mux.HandleFunc("GET /api/assets/mine", mw.RequireAuth(h.ListMine))
	mux.HandleFunc("GET /api/assets/search", mw.RequireAuth(h.Search))
	mux.HandleFunc("GET /api/assets/{id}", mw.RequireAuth(h.Get))
	mux.HandleFunc("POST /api/assets", mw.RequireAuth(h.Create))
	mux.HandleFunc("PUT /api/assets/{id}", mw.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/assets/{id}", mw.RequireAuth(h.Delete))
	mux.HandleFunc("POST /api/assets/{id}/submit", mw.RequireAuth(h.Submit))
}

// assetRequest carries the author-editable fields of an asset.
type assetRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Keywords        string  `json:"keywords"`
	SourceURL       string  `json:"source_url"`
	AssetType       string  `json:"asset_type"`
	Confidentiality string  `json:"confidentiality"`
	SourceProjectID string  `json:"source_project_id"`
	WorkspaceID     *int64  `json:"workspace_id"`
	VersionMajor    int     `json:"version_major"`
	VersionMinor    int     `json:"version_minor"`
	Tags            []int64 `json:"tags"`
}

func (req *assetRequest) fields() models.AssetFields {
	return models.AssetFields{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Keywords:        req.Keywords,
		SourceURL:       req.SourceURL,
		AssetType:       req.AssetType,
		Confidentiality: req.Confidentiality,
		SourceProjectID: req.SourceProjectID,
		WorkspaceID:     req.WorkspaceID,
		VersionMajor:    req.VersionMajor,
		VersionMinor:    req.VersionMinor,
	}
}

// List handles GET /api/assets requests.
func (h *AssetsHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assetService.ListPublished(r.Context())
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: assets}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListMine handles GET /api/assets/mine requests.
func (h *AssetsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	assets, err := h.assetService.ListMine(r.Context(), userID)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: assets}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Search handles GET /api/assets/search requests.
func (h *AssetsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	assets, err := h.assetService.Search(r.Context(), query)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if userID, err := auth.CurrentUserID(r.Context()); err == nil {
		h.usageService.Track(r.Context(), userID, models.EventSearch, nil, map[string]any{
			"query":   strings.TrimSpace(query),
			"results": len(assets),
		})
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: assets}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/assets/{id} requests.
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	assetID, ok := ParseAssetID(w, r, h.logger)
	if !ok {
		return
	}

	asset, err := h.assetService.Get(r.Context(), assetID)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if userID, err := auth.CurrentUserID(r.Context()); err == nil {
		h.usageService.Track(r.Context(), userID, models.EventView, &assetID, nil)
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: asset}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/assets requests. New assets start as drafts.
func (h *AssetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Title is required")
		return
	}

	asset, err := h.lifecycleService.Create(r.Context(), userID, req.fields(), req.Tags)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	h.usageService.Track(r.Context(), userID, models.EventCreate, &asset.ID, nil)

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: asset}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/assets/{id} requests. Only the owner's drafts can
// be edited.
func (h *AssetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	assetID, ok := ParseAssetID(w, r, h.logger)
	if !ok {
		return
	}
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.lifecycleService.UpdateDraft(r.Context(), assetID, userID, req.fields(), req.Tags); err != nil {
		RespondError(w, h.logger, err)
		return
	}

	asset, err := h.assetService.Get(r.Context(), assetID)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: asset}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/assets/{id} requests.
func (h *AssetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	assetID, ok := ParseAssetID(w, r, h.logger)
	if !ok {
		return
	}
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	if err := h.lifecycleService.DeleteDraft(r.Context(), assetID, userID); err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]int64{"deleted": assetID}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Submit handles POST /api/assets/{id}/submit requests, moving a draft to
// pending review once its required metadata is complete.
func (h *AssetsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	assetID, ok := ParseAssetID(w, r, h.logger)
	if !ok {
		return
	}
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	if err := h.lifecycleService.Submit(r.Context(), assetID, userID); err != nil {
		RespondError(w, h.logger, err)
		return
	}

	asset, err := h.assetService.Get(r.Context(), assetID)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: asset}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
