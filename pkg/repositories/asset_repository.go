package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/knova-inc/knova-engine/pkg/apperrors"
	"github.com/knova-inc/knova-engine/pkg/database"
	"github.com/knova-inc/knova-engine/pkg/models"
)

// AssetRepository provides data access for knowledge assets and their tag
// associations.
type AssetRepository interface {
	Create(ctx context.Context, asset *models.KnowledgeAsset) error
	UpdateFields(ctx context.Context, asset *models.KnowledgeAsset) error
	Delete(ctx context.Context, assetID int64) error

	GetByID(ctx context.Context, assetID int64) (*models.KnowledgeAsset, error)
	// GetForUpdate loads id/status/owner under a row lock so lifecycle guard
	// rechecks inside a transaction see committed concurrent transitions.
	GetForUpdate(ctx context.Context, assetID int64) (*models.KnowledgeAsset, error)

	ListPublished(ctx context.Context) ([]*models.KnowledgeAsset, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]*models.KnowledgeAsset, error)
	ListByStatus(ctx context.Context, status models.AssetStatus) ([]*models.KnowledgeAsset, error)
	ListPendingReview(ctx context.Context, workspaceID *int64) ([]*models.KnowledgeAsset, error)
	Search(ctx context.Context, term string) ([]*models.KnowledgeAsset, error)

	// Sweep candidate queries.
	ListReviewOverdue(ctx context.Context, now time.Time) ([]int64, error)
	ListExpiryPassed(ctx context.Context, now time.Time) ([]int64, error)

	// Status transitions.
	SetStatus(ctx context.Context, assetID int64, status models.AssetStatus) error
	MarkReviewed(ctx context.Context, assetID int64, reviewedAt, reviewDueAt, expiryAt time.Time) error
	MarkRejected(ctx context.Context, assetID int64, reviewComment string) error

	// Tag associations.
	ReplaceTags(ctx context.Context, assetID int64, tagIDs []int64) error
	TagsForAsset(ctx context.Context, assetID int64) ([]models.MetadataTag, error)
	DistinctTagTypes(ctx context.Context, assetID int64) ([]models.TagType, error)
}

type assetRepository struct {
	db *database.DB
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(db *database.DB) AssetRepository {
	return &assetRepository{db: db}
}

var _ AssetRepository = (*assetRepository)(nil)

const assetColumns = `ka.id, ka.title, ka.description, ka.status, ka.owner_user_id,
	ka.keywords, ka.source_url, ka.asset_type, ka.confidentiality, ka.source_project_id,
	ka.workspace_id, ka.version_major, ka.version_minor, ka.version_updated_at,
	ka.last_reviewed_at, ka.review_due_at, ka.expiry_at, ka.review_comment, ka.created_at`

func (r *assetRepository) Create(ctx context.Context, asset *models.KnowledgeAsset) error {
	query := `
		INSERT INTO knowledge_assets (
			title, description, status, owner_user_id, keywords, source_url,
			asset_type, confidentiality, source_project_id, workspace_id,
			version_major, version_minor
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		asset.Title,
		asset.Description,
		asset.Status,
		asset.OwnerUserID,
		nullString(asset.Keywords),
		nullString(asset.SourceURL),
		nullString(asset.AssetType),
		nullString(asset.Confidentiality),
		nullString(asset.SourceProjectID),
		asset.WorkspaceID,
		asset.VersionMajor,
		asset.VersionMinor,
	).Scan(&asset.ID, &asset.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

func (r *assetRepository) UpdateFields(ctx context.Context, asset *models.KnowledgeAsset) error {
	query := `
		UPDATE knowledge_assets
		SET title = $2, description = $3, keywords = $4, source_url = $5,
		    asset_type = $6, confidentiality = $7, source_project_id = $8,
		    workspace_id = $9, version_major = $10, version_minor = $11,
		    version_updated_at = now()
		WHERE id = $1`

	result, err := r.db.Querier(ctx).Exec(ctx, query,
		asset.ID,
		asset.Title,
		asset.Description,
		nullString(asset.Keywords),
		nullString(asset.SourceURL),
		nullString(asset.AssetType),
		nullString(asset.Confidentiality),
		nullString(asset.SourceProjectID),
		asset.WorkspaceID,
		asset.VersionMajor,
		asset.VersionMinor,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assetRepository) Delete(ctx context.Context, assetID int64) error {
	// asset_tags rows go with it via ON DELETE CASCADE.
	result, err := r.db.Querier(ctx).Exec(ctx, `DELETE FROM knowledge_assets WHERE id = $1`, assetID)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, assetID int64) (*models.KnowledgeAsset, error) {
	query := `
		SELECT ` + assetColumns + `, ws.name
		FROM knowledge_assets ka
		LEFT JOIN workspaces ws ON ws.id = ka.workspace_id
		WHERE ka.id = $1`

	row := r.db.Querier(ctx).QueryRow(ctx, query, assetID)
	asset, err := scanAssetWithWorkspace(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return asset, nil
}

func (r *assetRepository) GetForUpdate(ctx context.Context, assetID int64) (*models.KnowledgeAsset, error) {
	query := `
		SELECT id, status, owner_user_id, review_due_at, expiry_at
		FROM knowledge_assets
		WHERE id = $1
		FOR UPDATE`

	var asset models.KnowledgeAsset
	var status string
	err := r.db.Querier(ctx).QueryRow(ctx, query, assetID).Scan(
		&asset.ID, &status, &asset.OwnerUserID, &asset.ReviewDueAt, &asset.ExpiryAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock asset: %w", err)
	}

	asset.Status, err = models.ParseAssetStatus(status)
	if err != nil {
		return nil, fmt.Errorf("asset %d has invalid status: %w", assetID, err)
	}
	return &asset, nil
}

func (r *assetRepository) ListPublished(ctx context.Context) ([]*models.KnowledgeAsset, error) {
	query := `
		SELECT ` + assetColumns + `, ws.name
		FROM knowledge_assets ka
		LEFT JOIN workspaces ws ON ws.id = ka.workspace_id
		WHERE ka.status IN ('published', 'needs_review', 'expired')
		ORDER BY ka.created_at DESC`

	return r.queryAssets(ctx, query)
}

func (r *assetRepository) ListByOwner(ctx context.Context, ownerUserID int64) ([]*models.KnowledgeAsset, error) {
	query := `
		SELECT ` + assetColumns + `, ws.name
		FROM knowledge_assets ka
		LEFT JOIN workspaces ws ON ws.id = ka.workspace_id
		WHERE ka.owner_user_id = $1
		ORDER BY ka.created_at DESC`

	return r.queryAssets(ctx, query, ownerUserID)
}

func (r *assetRepository) ListByStatus(ctx context.Context, status models.AssetStatus) ([]*models.KnowledgeAsset, error) {
	query := `
		SELECT ` + assetColumns + `, ws.name, u.name, u.email
		FROM knowledge_assets ka
		LEFT JOIN workspaces ws ON ws.id = ka.workspace_id
		JOIN users u ON u.id = ka.owner_user_id
		WHERE ka.status = $1
		ORDER BY ka.created_at DESC`

	return r.queryAssetsWithOwner(ctx, query, status)
}

func (r *assetRepository) ListPendingReview(ctx context.Context, workspaceID *int64) ([]*models.KnowledgeAsset, error) {
	query := `
		SELECT ` + assetColumns + `, ws.name, u.name, u.email
		FROM knowledge_assets ka
		LEFT JOIN workspaces ws ON ws.id = ka.workspace_id
		JOIN users u ON u.id = ka.owner_user_id
		WHERE ka.status = 'pending_review'`

	args := []any{}
	if workspaceID != nil {
		query += ` AND ka.workspace_id = $1`
		args = append(args, *workspaceID)
	}
	query += ` ORDER BY ka.created_at DESC`

	return r.queryAssetsWithOwner(ctx, query, args...)
}

func (r *assetRepository) Search(ctx context.Context, term string) ([]*models.KnowledgeAsset, error) {
	query := `
		SELECT ` + assetColumns + `, ws.name
		FROM knowledge_assets ka
		LEFT JOIN workspaces ws ON ws.id = ka.workspace_id
		WHERE ka.status IN ('published', 'needs_review', 'expired')
		  AND (ka.title ILIKE $1 OR ka.description ILIKE $1 OR ka.keywords ILIKE $1)
		ORDER BY ka.created_at DESC`

	return r.queryAssets(ctx, query, "%"+term+"%")
}

func (r *assetRepository) ListReviewOverdue(ctx context.Context, now time.Time) ([]int64, error) {
	query := `
		SELECT id FROM knowledge_assets
		WHERE status = 'published' AND review_due_at IS NOT NULL AND review_due_at < $1
		ORDER BY id`

	return r.queryIDs(ctx, query, now)
}

func (r *assetRepository) ListExpiryPassed(ctx context.Context, now time.Time) ([]int64, error) {
	query := `
		SELECT id FROM knowledge_assets
		WHERE status IN ('published', 'needs_review') AND expiry_at IS NOT NULL AND expiry_at < $1
		ORDER BY id`

	return r.queryIDs(ctx, query, now)
}

func (r *assetRepository) SetStatus(ctx context.Context, assetID int64, status models.AssetStatus) error {
	result, err := r.db.Querier(ctx).Exec(ctx,
		`UPDATE knowledge_assets SET status = $2 WHERE id = $1`, assetID, status)
	if err != nil {
		return fmt.Errorf("failed to set asset status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assetRepository) MarkReviewed(ctx context.Context, assetID int64, reviewedAt, reviewDueAt, expiryAt time.Time) error {
	query := `
		UPDATE knowledge_assets
		SET status = 'published', last_reviewed_at = $2, review_due_at = $3, expiry_at = $4
		WHERE id = $1`

	result, err := r.db.Querier(ctx).Exec(ctx, query, assetID, reviewedAt, reviewDueAt, expiryAt)
	if err != nil {
		return fmt.Errorf("failed to mark asset reviewed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assetRepository) MarkRejected(ctx context.Context, assetID int64, reviewComment string) error {
	query := `
		UPDATE knowledge_assets
		SET status = 'rejected', review_comment = $2
		WHERE id = $1`

	result, err := r.db.Querier(ctx).Exec(ctx, query, assetID, nullString(reviewComment))
	if err != nil {
		return fmt.Errorf("failed to mark asset rejected: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assetRepository) ReplaceTags(ctx context.Context, assetID int64, tagIDs []int64) error {
	q := r.db.Querier(ctx)

	if _, err := q.Exec(ctx, `DELETE FROM asset_tags WHERE asset_id = $1`, assetID); err != nil {
		return fmt.Errorf("failed to clear asset tags: %w", err)
	}

	for _, tagID := range tagIDs {
		if _, err := q.Exec(ctx,
			`INSERT INTO asset_tags (asset_id, tag_id) VALUES ($1, $2)`, assetID, tagID); err != nil {
			return fmt.Errorf("failed to attach tag %d: %w", tagID, err)
		}
	}
	return nil
}

func (r *assetRepository) TagsForAsset(ctx context.Context, assetID int64) ([]models.MetadataTag, error) {
	query := `
		SELECT mt.id, mt.tag_type, mt.tag_value
		FROM metadata_tags mt
		JOIN asset_tags at ON mt.id = at.tag_id
		WHERE at.asset_id = $1
		ORDER BY mt.tag_type, mt.tag_value`

	rows, err := r.db.Querier(ctx).Query(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset tags: %w", err)
	}
	defer rows.Close()

	var tags []models.MetadataTag
	for rows.Next() {
		var tag models.MetadataTag
		if err := rows.Scan(&tag.ID, &tag.Type, &tag.Value); err != nil {
			return nil, fmt.Errorf("failed to scan asset tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset tags: %w", err)
	}
	return tags, nil
}

func (r *assetRepository) DistinctTagTypes(ctx context.Context, assetID int64) ([]models.TagType, error) {
	query := `
		SELECT DISTINCT mt.tag_type
		FROM metadata_tags mt
		JOIN asset_tags at ON mt.id = at.tag_id
		WHERE at.asset_id = $1`

	rows, err := r.db.Querier(ctx).Query(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag types: %w", err)
	}
	defer rows.Close()

	var types []models.TagType
	for rows.Next() {
		var t models.TagType
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan tag type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag types: %w", err)
	}
	return types, nil
}

func (r *assetRepository) queryAssets(ctx context.Context, query string, args ...any) ([]*models.KnowledgeAsset, error) {
	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.KnowledgeAsset
	for rows.Next() {
		asset, err := scanAssetWithWorkspace(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}
	return assets, nil
}

func (r *assetRepository) queryAssetsWithOwner(ctx context.Context, query string, args ...any) ([]*models.KnowledgeAsset, error) {
	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.KnowledgeAsset
	for rows.Next() {
		asset, err := scanAssetRow(rows, true)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}
	return assets, nil
}

func (r *assetRepository) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan asset id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset ids: %w", err)
	}
	return ids, nil
}

func scanAssetWithWorkspace(row pgx.Row) (*models.KnowledgeAsset, error) {
	return scanAssetInto(row, false)
}

func scanAssetRow(row pgx.Row, withOwner bool) (*models.KnowledgeAsset, error) {
	return scanAssetInto(row, withOwner)
}

func scanAssetInto(row pgx.Row, withOwner bool) (*models.KnowledgeAsset, error) {
	var asset models.KnowledgeAsset
	var status string
	var keywords, sourceURL, assetType, confidentiality, sourceProjectID, reviewComment, workspaceName *string
	var ownerName, ownerEmail *string

	dest := []any{
		&asset.ID, &asset.Title, &asset.Description, &status, &asset.OwnerUserID,
		&keywords, &sourceURL, &assetType, &confidentiality, &sourceProjectID,
		&asset.WorkspaceID, &asset.VersionMajor, &asset.VersionMinor, &asset.VersionUpdatedAt,
		&asset.LastReviewedAt, &asset.ReviewDueAt, &asset.ExpiryAt, &reviewComment, &asset.CreatedAt,
		&workspaceName,
	}
	if withOwner {
		dest = append(dest, &ownerName, &ownerEmail)
	}

	if err := row.Scan(dest...); err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan asset: %w", err)
	}

	parsed, err := models.ParseAssetStatus(status)
	if err != nil {
		return nil, err
	}
	asset.Status = parsed

	asset.Keywords = deref(keywords)
	asset.SourceURL = deref(sourceURL)
	asset.AssetType = deref(assetType)
	asset.Confidentiality = deref(confidentiality)
	asset.SourceProjectID = deref(sourceProjectID)
	asset.ReviewComment = deref(reviewComment)
	asset.WorkspaceName = deref(workspaceName)
	asset.OwnerName = deref(ownerName)
	asset.OwnerEmail = deref(ownerEmail)

	return &asset, nil
}

// nullString maps empty strings to NULL so optional text columns stay null.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
