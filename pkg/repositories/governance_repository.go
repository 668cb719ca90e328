package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/knova-inc/knova-engine/pkg/database"
	"github.com/knova-inc/knova-engine/pkg/models"
)

// GovernanceRepository provides append access to governance decision records
// and outbound integration events. Both are write-only from the engine's
// perspective.
type GovernanceRepository interface {
	CreateAction(ctx context.Context, action *models.GovernanceAction) error
	CreateIntegrationEvent(ctx context.Context, event *models.IntegrationEvent) error
	ListActionsForAsset(ctx context.Context, assetID int64) ([]*models.GovernanceAction, error)
}

type governanceRepository struct {
	db *database.DB
}

// NewGovernanceRepository creates a new GovernanceRepository.
func NewGovernanceRepository(db *database.DB) GovernanceRepository {
	return &governanceRepository{db: db}
}

var _ GovernanceRepository = (*governanceRepository)(nil)

func (r *governanceRepository) CreateAction(ctx context.Context, action *models.GovernanceAction) error {
	issuesJSON, err := json.Marshal(action.Issues)
	if err != nil {
		return fmt.Errorf("failed to marshal issues: %w", err)
	}

	query := `
		INSERT INTO governance_actions (asset_id, action, actor_user_id, comments, outcome, issues)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err = r.db.Querier(ctx).QueryRow(ctx, query,
		action.AssetID,
		action.Action,
		action.ActorUserID,
		nullString(action.Comments),
		nullString(action.Outcome),
		issuesJSON,
	).Scan(&action.ID, &action.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create governance action: %w", err)
	}
	return nil
}

func (r *governanceRepository) CreateIntegrationEvent(ctx context.Context, event *models.IntegrationEvent) error {
	query := `
		INSERT INTO integration_events (source_system, payload_hash)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		event.SourceSystem, event.PayloadHash).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create integration event: %w", err)
	}
	return nil
}

func (r *governanceRepository) ListActionsForAsset(ctx context.Context, assetID int64) ([]*models.GovernanceAction, error) {
	query := `
		SELECT id, asset_id, action, actor_user_id, comments, outcome, issues, created_at
		FROM governance_actions
		WHERE asset_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Querier(ctx).Query(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query governance actions: %w", err)
	}
	defer rows.Close()

	var actions []*models.GovernanceAction
	for rows.Next() {
		var action models.GovernanceAction
		var comments, outcome *string
		var issuesJSON []byte

		err := rows.Scan(&action.ID, &action.AssetID, &action.Action,
			&action.ActorUserID, &comments, &outcome, &issuesJSON, &action.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan governance action: %w", err)
		}

		action.Comments = deref(comments)
		action.Outcome = deref(outcome)
		if len(issuesJSON) > 0 && string(issuesJSON) != "null" {
			if err := json.Unmarshal(issuesJSON, &action.Issues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal issues: %w", err)
			}
		}
		actions = append(actions, &action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating governance actions: %w", err)
	}
	return actions, nil
}
