package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/apperrors"
	"github.com/knova-inc/knova-engine/pkg/models"
)

type mockChampionRepo struct {
	assignments []*models.ChampionAssignment
}

func (m *mockChampionRepo) List(_ context.Context, region string) ([]*models.ChampionAssignment, error) {
	if region == "" {
		return m.assignments, nil
	}
	var out []*models.ChampionAssignment
	for _, a := range m.assignments {
		if a.Region == region {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockChampionRepo) CreateAssignment(_ context.Context, championUserID int64, region string) error {
	m.assignments = append(m.assignments, &models.ChampionAssignment{
		ChampionUserID: championUserID,
		Region:         region,
	})
	return nil
}

func TestChampion_Assign_PromotesRoleAndRecordsRegion(t *testing.T) {
	users := &stubUserRepo{users: map[int64]*models.User{
		7: {ID: 7, Name: "Dana", Role: models.RoleAuthor},
	}}
	champions := &mockChampionRepo{}
	svc := NewChampionService(passthroughTx{}, champions, users, zap.NewNop())

	err := svc.Assign(context.Background(), 7, "EMEA")
	require.NoError(t, err)

	assert.Equal(t, models.RoleChampion, users.users[7].Role)
	require.Len(t, champions.assignments, 1)
	assert.Equal(t, "EMEA", champions.assignments[0].Region)
}

func TestChampion_Assign_UnknownUser(t *testing.T) {
	users := &stubUserRepo{users: map[int64]*models.User{}}
	svc := NewChampionService(passthroughTx{}, &mockChampionRepo{}, users, zap.NewNop())

	err := svc.Assign(context.Background(), 99, "EMEA")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
