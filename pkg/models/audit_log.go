package models

import "time"

// Audit action tags for lifecycle-affecting operations.
const (
	AuditActionApprove         = "APPROVE"
	AuditActionReject          = "REJECT"
	AuditActionRevalidate      = "REVALIDATE"
	AuditActionMarkNeedsReview = "MARK_NEEDS_REVIEW"
	AuditActionExpire          = "EXPIRE"
)

// AuditLogEntry is an immutable append-only record of a lifecycle-affecting
// action. ActorUserID is nil for scheduler-driven (system) actions.
type AuditLogEntry struct {
	ID          int64     `json:"id"`
	ActorUserID *int64    `json:"actor_user_id,omitempty"`
	Action      string    `json:"action"`
	ContentID   int64     `json:"content_id"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined for display only.
	ActorName  string `json:"actor_name,omitempty"`
	ActorEmail string `json:"actor_email,omitempty"`
}
