package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/apperrors"
)

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.ErrNotFound, 404, "not_found"},
		{"wrapped not found", fmt.Errorf("loading asset: %w", apperrors.ErrNotFound), 404, "not_found"},
		{"forbidden", apperrors.ErrForbidden, 403, "forbidden"},
		{"invalid credentials", apperrors.ErrInvalidCredentials, 401, "invalid_credentials"},
		{"email taken", apperrors.ErrEmailTaken, 400, "email_taken"},
		{"invalid transition", &apperrors.InvalidTransitionError{Operation: "approve", Current: "draft"}, 409, "invalid_transition"},
		{"validation failed", &apperrors.ValidationError{Missing: []string{"Region"}}, 400, "required_metadata_missing"},
		{"unknown", errors.New("boom"), 500, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, zap.NewNop(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["error"])
		})
	}
}

func TestRespondError_InvalidTransitionCarriesCurrentStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, zap.NewNop(), &apperrors.InvalidTransitionError{Operation: "submit", Current: "published"})

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "published", details["current_status"])
}

func TestRespondError_ValidationCarriesMissingCategories(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, zap.NewNop(), &apperrors.ValidationError{
		Missing: []string{"Industry", "AccessLevel"},
	})

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"Industry", "AccessLevel"}, details["missing"])
}
