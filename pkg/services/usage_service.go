package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/repositories"
)

// UsageService records usage events for adoption metrics. Tracking is
// best-effort: a failed write is logged and swallowed so it can never break
// the request that produced it.
type UsageService interface {
	Track(ctx context.Context, userID int64, eventType string, contentID *int64, metadata map[string]any)
}

type usageService struct {
	usageRepo repositories.UsageRepository
	logger    *zap.Logger
}

// NewUsageService creates a new UsageService.
func NewUsageService(usageRepo repositories.UsageRepository, logger *zap.Logger) UsageService {
	return &usageService{
		usageRepo: usageRepo,
		logger:    logger.Named("usage-service"),
	}
}

var _ UsageService = (*usageService)(nil)

func (s *usageService) Track(ctx context.Context, userID int64, eventType string, contentID *int64, metadata map[string]any) {
	if userID == 0 || eventType == "" {
		return
	}

	event := &models.UsageEvent{
		UserID:    userID,
		EventType: eventType,
		ContentID: contentID,
		Metadata:  metadata,
	}
	if err := s.usageRepo.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to track usage event",
			zap.Int64("user_id", userID),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}
