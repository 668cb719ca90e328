package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/apperrors"
	"github.com/knova-inc/knova-engine/pkg/auth"
	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/services"
)

type mockAssetService struct {
	assets map[int64]*models.KnowledgeAsset
}

func (m *mockAssetService) ListPublished(_ context.Context) ([]*models.KnowledgeAsset, error) {
	var out []*models.KnowledgeAsset
	for _, a := range m.assets {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAssetService) ListMine(_ context.Context, owner int64) ([]*models.KnowledgeAsset, error) {
	var out []*models.KnowledgeAsset
	for _, a := range m.assets {
		if a.OwnerUserID == owner {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAssetService) Get(_ context.Context, assetID int64) (*models.KnowledgeAsset, error) {
	asset, ok := m.assets[assetID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return asset, nil
}

func (m *mockAssetService) Search(_ context.Context, _ string) ([]*models.KnowledgeAsset, error) {
	return nil, nil
}

type mockLifecycleService struct {
	submitErr error
	created   *models.KnowledgeAsset
}

func (m *mockLifecycleService) Create(_ context.Context, owner int64, fields models.AssetFields, _ []int64) (*models.KnowledgeAsset, error) {
	m.created = &models.KnowledgeAsset{
		ID:          42,
		Title:       fields.Title,
		Status:      models.StatusDraft,
		OwnerUserID: owner,
	}
	return m.created, nil
}

func (m *mockLifecycleService) UpdateDraft(_ context.Context, _, _ int64, _ models.AssetFields, _ []int64) error {
	return nil
}

func (m *mockLifecycleService) DeleteDraft(_ context.Context, _, _ int64) error { return nil }

func (m *mockLifecycleService) Submit(_ context.Context, _, _ int64) error { return m.submitErr }

func (m *mockLifecycleService) Approve(_ context.Context, _, _ int64, _, _ string, _ []string) error {
	return nil
}

func (m *mockLifecycleService) Reject(_ context.Context, _, _ int64, _ string) error { return nil }

func (m *mockLifecycleService) Revalidate(_ context.Context, _, _ int64, _ string) error { return nil }

func (m *mockLifecycleService) Sweep(_ context.Context) (services.SweepResult, error) {
	return services.SweepResult{}, nil
}

type mockUsageService struct {
	tracked []string
}

func (m *mockUsageService) Track(_ context.Context, _ int64, eventType string, _ *int64, _ map[string]any) {
	m.tracked = append(m.tracked, eventType)
}

// authedRequest builds a request carrying claims the way the auth middleware
// would after validating a token.
func authedRequest(method, target, body string, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: strconv.FormatInt(userID, 10)},
		Role:             models.RoleAuthor,
	}
	return req.WithContext(auth.SetClaims(req.Context(), claims))
}

func newAssetsFixture() (*AssetsHandler, *mockAssetService, *mockLifecycleService, *mockUsageService) {
	assets := &mockAssetService{assets: make(map[int64]*models.KnowledgeAsset)}
	lifecycle := &mockLifecycleService{}
	usage := &mockUsageService{}
	h := NewAssetsHandler(assets, lifecycle, usage, zap.NewNop())
	return h, assets, lifecycle, usage
}

func TestAssetsHandler_Get_TracksView(t *testing.T) {
	h, assets, _, usage := newAssetsFixture()
	assets.assets[5] = &models.KnowledgeAsset{ID: 5, Title: "Playbook", Status: models.StatusPublished}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/assets/{id}", h.Get)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/assets/5", "", 7))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{models.EventView}, usage.tracked)

	var body struct {
		Success bool                  `json:"success"`
		Data    models.KnowledgeAsset `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Playbook", body.Data.Title)
}

func TestAssetsHandler_Get_UnknownAssetIs404(t *testing.T) {
	h, _, _, usage := newAssetsFixture()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/assets/{id}", h.Get)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/assets/99", "", 7))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, usage.tracked)
}

func TestAssetsHandler_Get_BadIDIs400(t *testing.T) {
	h, _, _, _ := newAssetsFixture()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/assets/{id}", h.Get)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/assets/abc", "", 7))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssetsHandler_Create_TracksCreateEvent(t *testing.T) {
	h, _, lifecycle, usage := newAssetsFixture()

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/assets",
		`{"title": "New Asset", "tags": [1, 2]}`, 7))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, lifecycle.created)
	assert.Equal(t, int64(7), lifecycle.created.OwnerUserID)
	assert.Equal(t, []string{models.EventCreate}, usage.tracked)
}

func TestAssetsHandler_Create_RequiresTitle(t *testing.T) {
	h, _, _, _ := newAssetsFixture()

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/assets", `{"title": "  "}`, 7))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssetsHandler_Submit_SurfacesMissingMetadata(t *testing.T) {
	h, _, lifecycle, _ := newAssetsFixture()
	lifecycle.submitErr = &apperrors.ValidationError{Missing: []string{"Industry", "Region"}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/assets/{id}/submit", h.Submit)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/assets/5/submit", "", 7))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "required_metadata_missing", body["error"])
}

func TestAssetsHandler_Submit_ConflictOnInvalidTransition(t *testing.T) {
	h, _, lifecycle, _ := newAssetsFixture()
	lifecycle.submitErr = &apperrors.InvalidTransitionError{Operation: "submit", Current: "published"}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/assets/{id}/submit", h.Submit)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/assets/5/submit", "", 7))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAssetsHandler_Search_TracksQuery(t *testing.T) {
	h, _, _, usage := newAssetsFixture()

	rec := httptest.NewRecorder()
	h.Search(rec, authedRequest(http.MethodGet, "/api/assets/search?q=cloud", "", 7))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{models.EventSearch}, usage.tracked)
}
