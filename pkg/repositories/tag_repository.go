package repositories

import (
	"context"
	"fmt"

	"github.com/knova-inc/knova-engine/pkg/database"
	"github.com/knova-inc/knova-engine/pkg/models"
)

// TagRepository provides read access to the fixed metadata tag catalog.
type TagRepository interface {
	List(ctx context.Context) ([]models.MetadataTag, error)
	// CountExisting returns how many of the given tag ids reference real
	// catalog entries. Used to reject unknown ids before insert.
	CountExisting(ctx context.Context, tagIDs []int64) (int, error)
}

type tagRepository struct {
	db *database.DB
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db *database.DB) TagRepository {
	return &tagRepository{db: db}
}

var _ TagRepository = (*tagRepository)(nil)

func (r *tagRepository) List(ctx context.Context) ([]models.MetadataTag, error) {
	query := `
		SELECT id, tag_type, tag_value
		FROM metadata_tags
		ORDER BY tag_type, tag_value`

	rows, err := r.db.Querier(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []models.MetadataTag
	for rows.Next() {
		var tag models.MetadataTag
		if err := rows.Scan(&tag.ID, &tag.Type, &tag.Value); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) CountExisting(ctx context.Context, tagIDs []int64) (int, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}

	var count int
	err := r.db.Querier(ctx).QueryRow(ctx,
		`SELECT COUNT(DISTINCT id) FROM metadata_tags WHERE id = ANY($1)`, tagIDs).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}
	return count, nil
}
