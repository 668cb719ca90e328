package models

import "time"

// Recommendation is one scored suggestion of a published asset.
type Recommendation struct {
	ID            int64     `json:"recommendationId"`
	AssetID       int64     `json:"assetId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Score         float64   `json:"score"`
	Explanation   string    `json:"explanation"`
	GeneratedOn   time.Time `json:"generatedOn"`
	WorkspaceID   *int64    `json:"workspaceId,omitempty"`
	WorkspaceName string    `json:"workspaceName,omitempty"`
}
