package repositories

import (
	"context"
	"fmt"

	"github.com/knova-inc/knova-engine/pkg/database"
	"github.com/knova-inc/knova-engine/pkg/models"
)

// WorkspaceRepository provides read access to workspaces.
type WorkspaceRepository interface {
	List(ctx context.Context) ([]models.Workspace, error)
}

type workspaceRepository struct {
	db *database.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository.
func NewWorkspaceRepository(db *database.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

var _ WorkspaceRepository = (*workspaceRepository)(nil)

func (r *workspaceRepository) List(ctx context.Context) ([]models.Workspace, error) {
	query := `
		SELECT id, name, related_project_id
		FROM workspaces
		ORDER BY name`

	rows, err := r.db.Querier(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []models.Workspace
	for rows.Next() {
		var ws models.Workspace
		var relatedProjectID *string
		if err := rows.Scan(&ws.ID, &ws.Name, &relatedProjectID); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		ws.RelatedProjectID = deref(relatedProjectID)
		workspaces = append(workspaces, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workspaces: %w", err)
	}
	return workspaces, nil
}
