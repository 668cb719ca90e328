package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/models"
)

func setupMiddleware(t *testing.T) (*Middleware, AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)
	return NewMiddleware(svc, zap.NewNop()), svc, repo
}

func tokenFor(t *testing.T, svc AuthService, repo *mockUserRepo, role models.Role) string {
	t.Helper()
	email := string(role) + "@example.com"
	_, err := svc.Register(context.Background(), "Test", email, "s3cret-pass")
	require.NoError(t, err)
	repo.byEmail[email].Role = role

	token, _, err := svc.Login(context.Background(), email, "s3cret-pass")
	require.NoError(t, err)
	return token
}

func TestMiddleware_RequireAuth_RejectsMissingToken(t *testing.T) {
	mw, _, _ := setupMiddleware(t)

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/assets", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_RequireAuth_SetsClaims(t *testing.T) {
	mw, svc, repo := setupMiddleware(t)
	token := tokenFor(t, svc, repo, models.RoleAuthor)

	var gotID int64
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		id, err := CurrentUserID(r.Context())
		require.NoError(t, err)
		gotID = id
	})

	req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), gotID)
}

func TestMiddleware_OptionalAuth_PassesThroughAnonymously(t *testing.T) {
	mw, _, _ := setupMiddleware(t)

	called := false
	handler := mw.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := GetClaims(r.Context())
		assert.False(t, ok)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/assets", nil))
	assert.True(t, called)
}

func TestMiddleware_RequireRole_AllowsListedRoles(t *testing.T) {
	mw, svc, repo := setupMiddleware(t)
	token := tokenFor(t, svc, repo, models.RoleReviewer)

	called := false
	handler := mw.RequireRole(models.RoleReviewer, models.RoleAdmin)(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/governance/pending", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_RequireRole_ForbidsOtherRoles(t *testing.T) {
	mw, svc, repo := setupMiddleware(t)
	token := tokenFor(t, svc, repo, models.RoleAuthor)

	handler := mw.RequireRole(models.RoleReviewer, models.RoleAdmin)(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/governance/pending", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddleware_RequireRole_RejectsAnonymous(t *testing.T) {
	mw, _, _ := setupMiddleware(t)

	handler := mw.RequireRole(models.RoleAdmin)(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/champions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
