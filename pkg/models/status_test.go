package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssetStatus(t *testing.T) {
	for _, status := range AllStatuses {
		parsed, err := ParseAssetStatus(string(status))
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}
}

func TestParseAssetStatus_RejectsUnknownValues(t *testing.T) {
	for _, raw := range []string{"", "Published", "archived", "pendingreview", "PENDING_REVIEW"} {
		_, err := ParseAssetStatus(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestCanRevalidate(t *testing.T) {
	assert.True(t, StatusPublished.CanRevalidate())
	assert.True(t, StatusNeedsReview.CanRevalidate())
	assert.True(t, StatusExpired.CanRevalidate())

	assert.False(t, StatusDraft.CanRevalidate())
	assert.False(t, StatusPendingReview.CanRevalidate())
	assert.False(t, StatusRejected.CanRevalidate())
}
