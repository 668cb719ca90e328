package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/apperrors"
	"github.com/knova-inc/knova-engine/pkg/config"
	"github.com/knova-inc/knova-engine/pkg/models"
)

type mockUserRepo struct {
	byEmail map[string]*models.User
	byID    map[int64]*models.User
	nextID  int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byEmail: make(map[string]*models.User),
		byID:    make(map[int64]*models.User),
		nextID:  1,
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, userID int64) (*models.User, error) {
	user, ok := m.byID[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) SetRole(_ context.Context, userID int64, role models.Role) error {
	user, ok := m.byID[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.Role = role
	return nil
}

func newTestAuthService(repo *mockUserRepo) AuthService {
	return NewAuthService(repo, config.AuthConfig{
		TokenSecret:     "test-secret",
		TokenTTLMinutes: 60,
	}, zap.NewNop())
}

func TestAuth_Register_NewUsersStartAsAuthors(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), "Dana", "Dana@Example.COM", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, models.RoleAuthor, user.Role)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
}

func TestAuth_Register_DuplicateEmailRejected(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), "Dana", "dana@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Other", "dana@example.com", "different")
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestAuth_Login_RoundTrip(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)

	registered, err := svc.Register(context.Background(), "Dana", "dana@example.com", "s3cret-pass")
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "dana@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, "dana@example.com", claims.Email)
	assert.Equal(t, models.RoleAuthor, claims.Role)
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), "Dana", "dana@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "dana@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuth_Login_UnknownEmailLooksLikeBadCredentials(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuth_ValidateToken_RejectsTamperedToken(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), "Dana", "dana@example.com", "s3cret-pass")
	require.NoError(t, err)
	token, _, err := svc.Login(context.Background(), "dana@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestAuth_ValidateToken_RejectsWrongSecret(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo)
	other := NewAuthService(repo, config.AuthConfig{
		TokenSecret:     "different-secret",
		TokenTTLMinutes: 60,
	}, zap.NewNop())

	_, err := svc.Register(context.Background(), "Dana", "dana@example.com", "s3cret-pass")
	require.NoError(t, err)
	token, _, err := svc.Login(context.Background(), "dana@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuth_ValidateToken_RejectsExpiredToken(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo).(*authService)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	_, err := svc.Register(context.Background(), "Dana", "dana@example.com", "s3cret-pass")
	require.NoError(t, err)
	token, _, err := svc.Login(context.Background(), "dana@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
