package repositories

import (
	"context"
	"fmt"

	"github.com/knova-inc/knova-engine/pkg/database"
	"github.com/knova-inc/knova-engine/pkg/models"
)

// RecommendationRepository provides the candidate query and persistence for
// recommendation rows.
type RecommendationRepository interface {
	// RecentPublished returns the newest published assets, optionally
	// scoped to a workspace.
	RecentPublished(ctx context.Context, workspaceID *int64, limit int) ([]*models.KnowledgeAsset, error)
	Create(ctx context.Context, rec *models.Recommendation) error
}

type recommendationRepository struct {
	db *database.DB
}

// NewRecommendationRepository creates a new RecommendationRepository.
func NewRecommendationRepository(db *database.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

var _ RecommendationRepository = (*recommendationRepository)(nil)

func (r *recommendationRepository) RecentPublished(ctx context.Context, workspaceID *int64, limit int) ([]*models.KnowledgeAsset, error) {
	query := `
		SELECT ka.id, ka.title, ka.description, ka.asset_type, ka.workspace_id, ws.name
		FROM knowledge_assets ka
		LEFT JOIN workspaces ws ON ws.id = ka.workspace_id
		WHERE ka.status = 'published'`

	args := []any{}
	if workspaceID != nil {
		query += ` AND ka.workspace_id = $1`
		args = append(args, *workspaceID)
	}
	query += fmt.Sprintf(` ORDER BY ka.created_at DESC LIMIT %d`, limit)

	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query published assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.KnowledgeAsset
	for rows.Next() {
		var asset models.KnowledgeAsset
		var assetType, workspaceName *string
		if err := rows.Scan(&asset.ID, &asset.Title, &asset.Description,
			&assetType, &asset.WorkspaceID, &workspaceName); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		asset.AssetType = deref(assetType)
		asset.WorkspaceName = deref(workspaceName)
		asset.Status = models.StatusPublished
		assets = append(assets, &asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}
	return assets, nil
}

func (r *recommendationRepository) Create(ctx context.Context, rec *models.Recommendation) error {
	query := `
		INSERT INTO recommendations (asset_id, recommendation_score, explanation, generated_on)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		rec.AssetID, rec.Score, rec.Explanation, rec.GeneratedOn).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to create recommendation: %w", err)
	}
	return nil
}
