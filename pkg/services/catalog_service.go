package services

import (
	"context"

	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/repositories"
)

// CatalogService exposes the read-only reference data: the metadata tag
// catalog and the workspace list.
type CatalogService interface {
	ListTags(ctx context.Context) ([]models.MetadataTag, error)
	ListWorkspaces(ctx context.Context) ([]models.Workspace, error)
}

type catalogService struct {
	tagRepo       repositories.TagRepository
	workspaceRepo repositories.WorkspaceRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(tagRepo repositories.TagRepository, workspaceRepo repositories.WorkspaceRepository) CatalogService {
	return &catalogService{
		tagRepo:       tagRepo,
		workspaceRepo: workspaceRepo,
	}
}

var _ CatalogService = (*catalogService)(nil)

func (s *catalogService) ListTags(ctx context.Context) ([]models.MetadataTag, error) {
	return s.tagRepo.List(ctx)
}

func (s *catalogService) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	return s.workspaceRepo.List(ctx)
}
