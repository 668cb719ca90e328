package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/repositories"
)

// AssetService provides the read side of the asset catalog: browsing,
// searching, and single-asset lookup. Mutations go through LifecycleService.
type AssetService interface {
	// ListPublished returns assets visible to readers (published plus the
	// aged needs_review/expired states).
	ListPublished(ctx context.Context) ([]*models.KnowledgeAsset, error)
	ListMine(ctx context.Context, ownerUserID int64) ([]*models.KnowledgeAsset, error)
	Get(ctx context.Context, assetID int64) (*models.KnowledgeAsset, error)
	Search(ctx context.Context, query string) ([]*models.KnowledgeAsset, error)
}

type assetService struct {
	assetRepo repositories.AssetRepository
	logger    *zap.Logger
}

// NewAssetService creates a new AssetService.
func NewAssetService(assetRepo repositories.AssetRepository, logger *zap.Logger) AssetService {
	return &assetService{
		assetRepo: assetRepo,
		logger:    logger.Named("asset-service"),
	}
}

var _ AssetService = (*assetService)(nil)

func (s *assetService) ListPublished(ctx context.Context) ([]*models.KnowledgeAsset, error) {
	return s.assetRepo.ListPublished(ctx)
}

func (s *assetService) ListMine(ctx context.Context, ownerUserID int64) ([]*models.KnowledgeAsset, error) {
	return s.assetRepo.ListByOwner(ctx, ownerUserID)
}

func (s *assetService) Get(ctx context.Context, assetID int64) (*models.KnowledgeAsset, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	tags, err := s.assetRepo.TagsForAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	asset.Tags = tags
	return asset, nil
}

func (s *assetService) Search(ctx context.Context, query string) ([]*models.KnowledgeAsset, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return []*models.KnowledgeAsset{}, nil
	}
	return s.assetRepo.Search(ctx, term)
}
