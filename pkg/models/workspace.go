package models

// Workspace is a grouping construct assets can optionally belong to.
// Opaque reference data from the lifecycle's perspective.
type Workspace struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	RelatedProjectID string `json:"related_project_id,omitempty"`
}
