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

type mockMentoringRepo struct {
	requests map[int64]*models.MentoringRequest
	nextID   int64
}

func newMockMentoringRepo() *mockMentoringRepo {
	return &mockMentoringRepo{requests: make(map[int64]*models.MentoringRequest), nextID: 1}
}

func (m *mockMentoringRepo) Create(_ context.Context, request *models.MentoringRequest) error {
	request.ID = m.nextID
	m.nextID++
	m.requests[request.ID] = request
	return nil
}

func (m *mockMentoringRepo) ListInbox(_ context.Context, championUserID int64) ([]*models.MentoringRequest, error) {
	var out []*models.MentoringRequest
	for _, r := range m.requests {
		if r.ChampionUserID == championUserID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockMentoringRepo) GetForChampion(_ context.Context, requestID, championUserID int64) (*models.MentoringRequest, error) {
	r, ok := m.requests[requestID]
	if !ok || r.ChampionUserID != championUserID {
		return nil, apperrors.ErrNotFound
	}
	return r, nil
}

func (m *mockMentoringRepo) SetStatus(_ context.Context, requestID int64, status models.MentoringStatus) error {
	r, ok := m.requests[requestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	r.Status = status
	return nil
}

type stubUserRepo struct {
	users map[int64]*models.User
}

func (s *stubUserRepo) Create(_ context.Context, _ *models.User) error { return nil }

func (s *stubUserRepo) GetByID(_ context.Context, userID int64) (*models.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) SetRole(_ context.Context, userID int64, role models.Role) error {
	user, ok := s.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.Role = role
	return nil
}

func newMentoringFixture() (MentoringService, *mockMentoringRepo) {
	repo := newMockMentoringRepo()
	users := &stubUserRepo{users: map[int64]*models.User{
		3: {ID: 3, Name: "Champ", Role: models.RoleChampion},
	}}
	return NewMentoringService(repo, users, zap.NewNop()), repo
}

func TestMentoring_CreateRequest_StartsOpen(t *testing.T) {
	svc, repo := newMentoringFixture()

	id, err := svc.CreateRequest(context.Background(), 7, 3, "  Cloud migration  ", "Need help scoping")
	require.NoError(t, err)

	request := repo.requests[id]
	assert.Equal(t, models.MentoringOpen, request.Status)
	assert.Equal(t, "Cloud migration", request.Topic)
	assert.Equal(t, int64(3), request.ChampionUserID)
}

func TestMentoring_CreateRequest_UnknownChampion(t *testing.T) {
	svc, _ := newMentoringFixture()

	_, err := svc.CreateRequest(context.Background(), 7, 99, "Topic", "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMentoring_UpdateStatus_OnlyTargetedChampion(t *testing.T) {
	svc, repo := newMentoringFixture()
	id, err := svc.CreateRequest(context.Background(), 7, 3, "Topic", "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), id, 99, "IN_PROGRESS")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, models.MentoringOpen, repo.requests[id].Status)

	status, err := svc.UpdateStatus(context.Background(), id, 3, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, models.MentoringInProgress, status)
	assert.Equal(t, models.MentoringInProgress, repo.requests[id].Status)
}

func TestMentoring_Inbox_ScopedToChampion(t *testing.T) {
	svc, _ := newMentoringFixture()

	_, err := svc.CreateRequest(context.Background(), 7, 3, "One", "")
	require.NoError(t, err)
	_, err = svc.CreateRequest(context.Background(), 8, 3, "Two", "")
	require.NoError(t, err)

	inbox, err := svc.Inbox(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, inbox, 2)

	empty, err := svc.Inbox(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
