package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/repositories"
)

// GovernanceService provides the reviewer-facing query surface: pending
// queues, status listings, and the audit trail of an asset.
type GovernanceService interface {
	ListPending(ctx context.Context, workspaceID *int64) ([]*models.KnowledgeAsset, error)
	ListByStatus(ctx context.Context, status string) ([]*models.KnowledgeAsset, error)
	AuditTrail(ctx context.Context, assetID int64) ([]*models.AuditLogEntry, error)
	Actions(ctx context.Context, assetID int64) ([]*models.GovernanceAction, error)
}

type governanceService struct {
	assetRepo      repositories.AssetRepository
	auditRepo      repositories.AuditRepository
	governanceRepo repositories.GovernanceRepository
	logger         *zap.Logger
}

// NewGovernanceService creates a new GovernanceService.
func NewGovernanceService(
	assetRepo repositories.AssetRepository,
	auditRepo repositories.AuditRepository,
	governanceRepo repositories.GovernanceRepository,
	logger *zap.Logger,
) GovernanceService {
	return &governanceService{
		assetRepo:      assetRepo,
		auditRepo:      auditRepo,
		governanceRepo: governanceRepo,
		logger:         logger.Named("governance-service"),
	}
}

var _ GovernanceService = (*governanceService)(nil)

func (s *governanceService) ListPending(ctx context.Context, workspaceID *int64) ([]*models.KnowledgeAsset, error) {
	return s.assetRepo.ListPendingReview(ctx, workspaceID)
}

func (s *governanceService) ListByStatus(ctx context.Context, status string) ([]*models.KnowledgeAsset, error) {
	parsed, err := models.ParseAssetStatus(strings.ToLower(strings.TrimSpace(status)))
	if err != nil {
		return nil, err
	}
	return s.assetRepo.ListByStatus(ctx, parsed)
}

func (s *governanceService) AuditTrail(ctx context.Context, assetID int64) ([]*models.AuditLogEntry, error) {
	return s.auditRepo.ListByContent(ctx, assetID)
}

func (s *governanceService) Actions(ctx context.Context, assetID int64) ([]*models.GovernanceAction, error) {
	return s.governanceRepo.ListActionsForAsset(ctx, assetID)
}
