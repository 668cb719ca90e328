package models

import "time"

// GovernanceDecision is the reviewer's verdict recorded on approve/reject.
const (
	GovernanceActionApproved = "Approved"
	GovernanceActionRejected = "Rejected"
)

// GovernanceAction is an immutable record of one reviewer decision.
// Created exactly once per approve/reject call and never mutated.
type GovernanceAction struct {
	ID          int64     `json:"id"`
	AssetID     int64     `json:"asset_id"`
	Action      string    `json:"action"` // Approved | Rejected
	ActorUserID int64     `json:"actor_user_id"`
	Comments    string    `json:"comments,omitempty"`
	Outcome     string    `json:"outcome,omitempty"`
	Issues      []string  `json:"issues,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IntegrationEvent is an outbound notification row written when an asset is
// approved. Downstream systems poll it; the engine never reads it back.
type IntegrationEvent struct {
	ID           int64     `json:"id"`
	SourceSystem string    `json:"source_system"`
	PayloadHash  string    `json:"payload_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
