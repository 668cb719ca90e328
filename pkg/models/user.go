package models

import (
	"strings"
	"time"
)

// Role is a user's access level. Roles are stored lower-cased; anything
// unrecognized is treated as author.
type Role string

const (
	RoleAuthor   Role = "author"
	RoleReviewer Role = "reviewer"
	RoleAdmin    Role = "admin"
	RoleChampion Role = "champion"
)

// ParseRole normalizes a stored role string, defaulting to author. Matching
// is case-insensitive so legacy rows with mixed-case roles keep their access.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(s)); r {
	case RoleReviewer, RoleAdmin, RoleChampion:
		return r
	}
	return RoleAuthor
}

// User is an account that authors, reviews, or administers assets.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Region       string    `json:"region,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
