package models

import "fmt"

// AssetStatus is the closed set of lifecycle states a knowledge asset can be
// in. Using a dedicated type keeps invalid status strings out of the engine;
// anything read from outside goes through ParseAssetStatus.
type AssetStatus string

const (
	StatusDraft         AssetStatus = "draft"
	StatusPendingReview AssetStatus = "pending_review"
	StatusPublished     AssetStatus = "published"
	StatusRejected      AssetStatus = "rejected"
	StatusNeedsReview   AssetStatus = "needs_review"
	StatusExpired       AssetStatus = "expired"
)

// AllStatuses lists every valid lifecycle state.
var AllStatuses = []AssetStatus{
	StatusDraft,
	StatusPendingReview,
	StatusPublished,
	StatusRejected,
	StatusNeedsReview,
	StatusExpired,
}

// ParseAssetStatus converts an external status string into an AssetStatus.
// Unknown values are rejected rather than passed through.
func ParseAssetStatus(s string) (AssetStatus, error) {
	status := AssetStatus(s)
	for _, known := range AllStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown asset status %q", s)
}

func (s AssetStatus) String() string {
	return string(s)
}

// CanRevalidate reports whether an asset in this state may be returned to
// published by a reviewer. Rejected assets are terminal.
func (s AssetStatus) CanRevalidate() bool {
	switch s {
	case StatusPublished, StatusNeedsReview, StatusExpired:
		return true
	}
	return false
}
