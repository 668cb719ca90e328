package models

import "time"

// KnowledgeAsset represents one governed unit of knowledge.
// Status moves through the lifecycle owned by the lifecycle service; the
// owner reference is immutable after creation.
type KnowledgeAsset struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      AssetStatus `json:"status"`
	OwnerUserID int64       `json:"owner_user_id"`

	Keywords        string `json:"keywords,omitempty"`
	SourceURL       string `json:"source_url,omitempty"`
	AssetType       string `json:"asset_type,omitempty"`
	Confidentiality string `json:"confidentiality,omitempty"`
	SourceProjectID string `json:"source_project_id,omitempty"`

	WorkspaceID   *int64 `json:"workspace_id,omitempty"`
	WorkspaceName string `json:"workspace_name,omitempty"`

	// Joined for governance listings only.
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`

	VersionMajor     int        `json:"version_major"`
	VersionMinor     int        `json:"version_minor"`
	VersionUpdatedAt *time.Time `json:"version_updated_at,omitempty"`

	// Review timestamps are only set once an asset has been approved or
	// revalidated at least once.
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	ReviewDueAt    *time.Time `json:"review_due_at,omitempty"`
	ExpiryAt       *time.Time `json:"expiry_at,omitempty"`

	// ReviewComment is set only on rejection.
	ReviewComment string `json:"review_comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Tags are populated on single-asset reads.
	Tags []MetadataTag `json:"tags,omitempty"`
}

// AssetFields carries the author-editable attributes of an asset, used on
// create and on draft update.
type AssetFields struct {
	Title           string
	Description     string
	Keywords        string
	SourceURL       string
	AssetType       string
	Confidentiality string
	SourceProjectID string
	WorkspaceID     *int64
	VersionMajor    int
	VersionMinor    int
}

// Normalize applies the storage defaults for unset version numbers.
func (f *AssetFields) Normalize() {
	if f.VersionMajor <= 0 {
		f.VersionMajor = 1
	}
	if f.VersionMinor < 0 {
		f.VersionMinor = 0
	}
}
