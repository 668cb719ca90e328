package repositories

import (
	"context"
	"fmt"

	"github.com/knova-inc/knova-engine/pkg/database"
	"github.com/knova-inc/knova-engine/pkg/models"
)

// ChampionRepository provides data access for champion assignments.
type ChampionRepository interface {
	List(ctx context.Context, region string) ([]*models.ChampionAssignment, error)
	CreateAssignment(ctx context.Context, championUserID int64, region string) error
}

type championRepository struct {
	db *database.DB
}

// NewChampionRepository creates a new ChampionRepository.
func NewChampionRepository(db *database.DB) ChampionRepository {
	return &championRepository{db: db}
}

var _ ChampionRepository = (*championRepository)(nil)

func (r *championRepository) List(ctx context.Context, region string) ([]*models.ChampionAssignment, error) {
	query := `
		SELECT ca.id, ca.champion_user_id, ca.region, ca.created_at, u.name, u.email, u.role
		FROM champion_assignments ca
		JOIN users u ON u.id = ca.champion_user_id`

	args := []any{}
	if region != "" {
		query += ` WHERE lower(ca.region) = lower($1)`
		args = append(args, region)
	}
	query += ` ORDER BY ca.created_at DESC`

	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query champions: %w", err)
	}
	defer rows.Close()

	var assignments []*models.ChampionAssignment
	for rows.Next() {
		var a models.ChampionAssignment
		var role string
		if err := rows.Scan(&a.ID, &a.ChampionUserID, &a.Region, &a.CreatedAt,
			&a.Name, &a.Email, &role); err != nil {
			return nil, fmt.Errorf("failed to scan champion assignment: %w", err)
		}
		a.Role = models.ParseRole(role)
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating champion assignments: %w", err)
	}
	return assignments, nil
}

func (r *championRepository) CreateAssignment(ctx context.Context, championUserID int64, region string) error {
	_, err := r.db.Querier(ctx).Exec(ctx,
		`INSERT INTO champion_assignments (champion_user_id, region) VALUES ($1, $2)`,
		championUserID, region)
	if err != nil {
		return fmt.Errorf("failed to create champion assignment: %w", err)
	}
	return nil
}
