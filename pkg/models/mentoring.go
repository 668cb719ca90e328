package models

import "time"

// MentoringStatus is the state of a mentoring request.
type MentoringStatus string

const (
	MentoringOpen       MentoringStatus = "OPEN"
	MentoringInProgress MentoringStatus = "IN_PROGRESS"
	MentoringResolved   MentoringStatus = "RESOLVED"
)

// ParseMentoringStatus normalizes an external status string, falling back
// to OPEN for anything unrecognized.
func ParseMentoringStatus(s string) MentoringStatus {
	switch MentoringStatus(s) {
	case MentoringInProgress, MentoringResolved:
		return MentoringStatus(s)
	}
	return MentoringOpen
}

// MentoringRequest is a user's ask for help from a knowledge champion.
type MentoringRequest struct {
	ID              int64           `json:"id"`
	RequesterUserID int64           `json:"requester_user_id"`
	ChampionUserID  int64           `json:"champion_user_id"`
	Topic           string          `json:"topic"`
	Message         string          `json:"message,omitempty"`
	Status          MentoringStatus `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`

	RequesterName  string `json:"requester_name,omitempty"`
	RequesterEmail string `json:"requester_email,omitempty"`
}

// ChampionAssignment records a user acting as knowledge champion for a region.
type ChampionAssignment struct {
	ID             int64     `json:"id"`
	ChampionUserID int64     `json:"user_id"`
	Region         string    `json:"region"`
	Name           string    `json:"name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Role           Role      `json:"role,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
