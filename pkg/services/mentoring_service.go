package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/repositories"
)

// MentoringService manages mentoring requests between users and champions.
type MentoringService interface {
	CreateRequest(ctx context.Context, requesterUserID, championUserID int64, topic, message string) (int64, error)
	Inbox(ctx context.Context, championUserID int64) ([]*models.MentoringRequest, error)
	// UpdateStatus changes a request's status. Only the targeted champion
	// may update it; resolving stamps resolved_at.
	UpdateStatus(ctx context.Context, requestID, championUserID int64, status string) (models.MentoringStatus, error)
}

type mentoringService struct {
	mentoringRepo repositories.MentoringRepository
	userRepo      repositories.UserRepository
	logger        *zap.Logger
}

// NewMentoringService creates a new MentoringService.
func NewMentoringService(
	mentoringRepo repositories.MentoringRepository,
	userRepo repositories.UserRepository,
	logger *zap.Logger,
) MentoringService {
	return &mentoringService{
		mentoringRepo: mentoringRepo,
		userRepo:      userRepo,
		logger:        logger.Named("mentoring-service"),
	}
}

var _ MentoringService = (*mentoringService)(nil)

func (s *mentoringService) CreateRequest(ctx context.Context, requesterUserID, championUserID int64, topic, message string) (int64, error) {
	// The champion must be a real user; the role itself is not re-checked
	// so admins can also receive requests.
	if _, err := s.userRepo.GetByID(ctx, championUserID); err != nil {
		return 0, err
	}

	request := &models.MentoringRequest{
		RequesterUserID: requesterUserID,
		ChampionUserID:  championUserID,
		Topic:           strings.TrimSpace(topic),
		Message:         strings.TrimSpace(message),
		Status:          models.MentoringOpen,
	}
	if err := s.mentoringRepo.Create(ctx, request); err != nil {
		return 0, err
	}
	return request.ID, nil
}

func (s *mentoringService) Inbox(ctx context.Context, championUserID int64) ([]*models.MentoringRequest, error) {
	return s.mentoringRepo.ListInbox(ctx, championUserID)
}

func (s *mentoringService) UpdateStatus(ctx context.Context, requestID, championUserID int64, status string) (models.MentoringStatus, error) {
	if _, err := s.mentoringRepo.GetForChampion(ctx, requestID, championUserID); err != nil {
		return "", err
	}

	normalized := models.ParseMentoringStatus(strings.ToUpper(strings.TrimSpace(status)))
	if err := s.mentoringRepo.SetStatus(ctx, requestID, normalized); err != nil {
		return "", err
	}
	return normalized, nil
}
