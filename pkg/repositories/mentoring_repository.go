package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/knova-inc/knova-engine/pkg/apperrors"
	"github.com/knova-inc/knova-engine/pkg/database"
	"github.com/knova-inc/knova-engine/pkg/models"
)

// MentoringRepository provides data access for mentoring requests.
type MentoringRepository interface {
	Create(ctx context.Context, request *models.MentoringRequest) error
	ListInbox(ctx context.Context, championUserID int64) ([]*models.MentoringRequest, error)
	// GetForChampion loads a request only if it targets the given champion.
	GetForChampion(ctx context.Context, requestID, championUserID int64) (*models.MentoringRequest, error)
	SetStatus(ctx context.Context, requestID int64, status models.MentoringStatus) error
}

type mentoringRepository struct {
	db *database.DB
}

// NewMentoringRepository creates a new MentoringRepository.
func NewMentoringRepository(db *database.DB) MentoringRepository {
	return &mentoringRepository{db: db}
}

var _ MentoringRepository = (*mentoringRepository)(nil)

func (r *mentoringRepository) Create(ctx context.Context, request *models.MentoringRequest) error {
	query := `
		INSERT INTO mentoring_requests (requester_user_id, champion_user_id, topic, message, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		request.RequesterUserID,
		request.ChampionUserID,
		request.Topic,
		nullString(request.Message),
		request.Status,
	).Scan(&request.ID, &request.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create mentoring request: %w", err)
	}
	return nil
}

func (r *mentoringRepository) ListInbox(ctx context.Context, championUserID int64) ([]*models.MentoringRequest, error) {
	query := `
		SELECT mr.id, mr.requester_user_id, mr.champion_user_id, mr.topic, mr.message,
		       mr.status, mr.created_at, mr.resolved_at, u.name, u.email
		FROM mentoring_requests mr
		JOIN users u ON u.id = mr.requester_user_id
		WHERE mr.champion_user_id = $1
		ORDER BY mr.created_at DESC`

	rows, err := r.db.Querier(ctx).Query(ctx, query, championUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentoring inbox: %w", err)
	}
	defer rows.Close()

	var requests []*models.MentoringRequest
	for rows.Next() {
		var req models.MentoringRequest
		var message *string
		var status string

		err := rows.Scan(&req.ID, &req.RequesterUserID, &req.ChampionUserID, &req.Topic,
			&message, &status, &req.CreatedAt, &req.ResolvedAt,
			&req.RequesterName, &req.RequesterEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mentoring request: %w", err)
		}

		req.Message = deref(message)
		req.Status = models.ParseMentoringStatus(status)
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mentoring requests: %w", err)
	}
	return requests, nil
}

func (r *mentoringRepository) GetForChampion(ctx context.Context, requestID, championUserID int64) (*models.MentoringRequest, error) {
	query := `
		SELECT id, requester_user_id, champion_user_id, topic, message, status, created_at, resolved_at
		FROM mentoring_requests
		WHERE id = $1 AND champion_user_id = $2`

	var req models.MentoringRequest
	var message *string
	var status string

	err := r.db.Querier(ctx).QueryRow(ctx, query, requestID, championUserID).Scan(
		&req.ID, &req.RequesterUserID, &req.ChampionUserID, &req.Topic,
		&message, &status, &req.CreatedAt, &req.ResolvedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mentoring request: %w", err)
	}

	req.Message = deref(message)
	req.Status = models.ParseMentoringStatus(status)
	return &req, nil
}

func (r *mentoringRepository) SetStatus(ctx context.Context, requestID int64, status models.MentoringStatus) error {
	query := `
		UPDATE mentoring_requests
		SET status = $2,
		    resolved_at = CASE WHEN $2 = 'RESOLVED' THEN now() ELSE resolved_at END
		WHERE id = $1`

	result, err := r.db.Querier(ctx).Exec(ctx, query, requestID, status)
	if err != nil {
		return fmt.Errorf("failed to update mentoring request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
