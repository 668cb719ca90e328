package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAuthor, ParseRole("author"))
	assert.Equal(t, RoleReviewer, ParseRole("reviewer"))
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleChampion, ParseRole("champion"))
}

func TestParseRole_IsCaseInsensitive(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("Admin"))
	assert.Equal(t, RoleChampion, ParseRole("CHAMPION"))
	assert.Equal(t, RoleReviewer, ParseRole("Reviewer"))
}

func TestParseRole_DefaultsToAuthor(t *testing.T) {
	assert.Equal(t, RoleAuthor, ParseRole(""))
	assert.Equal(t, RoleAuthor, ParseRole("superuser"))
	assert.Equal(t, RoleAuthor, ParseRole("admins"))
}
