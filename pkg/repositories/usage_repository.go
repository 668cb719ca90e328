package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/knova-inc/knova-engine/pkg/database"
	"github.com/knova-inc/knova-engine/pkg/models"
)

// Event type groupings used by the adoption metrics queries.
var (
	contributorEvents = []string{models.EventCreate, models.EventComment}
	consumerEvents    = []string{models.EventView, models.EventSearch, models.EventDownload}
)

// UsageRepository provides write access to usage events and the aggregation
// queries behind adoption metrics.
type UsageRepository interface {
	Create(ctx context.Context, event *models.UsageEvent) error

	CountActiveUsers(ctx context.Context, from, to time.Time) (int64, error)
	CountContributors(ctx context.Context, from, to time.Time) (int64, error)
	CountConsumers(ctx context.Context, from, to time.Time) (int64, error)
	TopEvents(ctx context.Context, from, to time.Time) ([]models.EventTypeCount, error)
	WeeklyTrend(ctx context.Context, from, to time.Time) ([]models.WeeklyTrendPoint, error)
}

type usageRepository struct {
	db *database.DB
}

// NewUsageRepository creates a new UsageRepository.
func NewUsageRepository(db *database.DB) UsageRepository {
	return &usageRepository{db: db}
}

var _ UsageRepository = (*usageRepository)(nil)

func (r *usageRepository) Create(ctx context.Context, event *models.UsageEvent) error {
	var metadataJSON []byte
	if event.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal event metadata: %w", err)
		}
	}

	query := `
		INSERT INTO usage_events (user_id, event_type, content_id, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		event.UserID,
		event.EventType,
		event.ContentID,
		metadataJSON,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create usage event: %w", err)
	}
	return nil
}

func (r *usageRepository) CountActiveUsers(ctx context.Context, from, to time.Time) (int64, error) {
	return r.countDistinctUsers(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM usage_events WHERE created_at BETWEEN $1 AND $2`,
		from, to)
}

func (r *usageRepository) CountContributors(ctx context.Context, from, to time.Time) (int64, error) {
	return r.countDistinctUsers(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM usage_events
		 WHERE event_type = ANY($3) AND created_at BETWEEN $1 AND $2`,
		from, to, contributorEvents)
}

func (r *usageRepository) CountConsumers(ctx context.Context, from, to time.Time) (int64, error) {
	return r.countDistinctUsers(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM usage_events
		 WHERE event_type = ANY($3) AND created_at BETWEEN $1 AND $2`,
		from, to, consumerEvents)
}

func (r *usageRepository) countDistinctUsers(ctx context.Context, query string, args ...any) (int64, error) {
	var count int64
	if err := r.db.Querier(ctx).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count usage events: %w", err)
	}
	return count, nil
}

func (r *usageRepository) TopEvents(ctx context.Context, from, to time.Time) ([]models.EventTypeCount, error) {
	query := `
		SELECT event_type, COUNT(*)
		FROM usage_events
		WHERE created_at BETWEEN $1 AND $2
		GROUP BY event_type
		ORDER BY COUNT(*) DESC`

	rows, err := r.db.Querier(ctx).Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query top events: %w", err)
	}
	defer rows.Close()

	var counts []models.EventTypeCount
	for rows.Next() {
		var c models.EventTypeCount
		if err := rows.Scan(&c.EventType, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event counts: %w", err)
	}
	return counts, nil
}

func (r *usageRepository) WeeklyTrend(ctx context.Context, from, to time.Time) ([]models.WeeklyTrendPoint, error) {
	query := `
		SELECT to_char(created_at, 'IYYY-IW') AS week,
		       COUNT(DISTINCT user_id),
		       COUNT(DISTINCT CASE WHEN event_type = ANY($3) THEN user_id END),
		       COUNT(DISTINCT CASE WHEN event_type = ANY($4) THEN user_id END)
		FROM usage_events
		WHERE created_at BETWEEN $1 AND $2
		GROUP BY week
		ORDER BY week`

	rows, err := r.db.Querier(ctx).Query(ctx, query, from, to, contributorEvents, consumerEvents)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly trend: %w", err)
	}
	defer rows.Close()

	var trend []models.WeeklyTrendPoint
	for rows.Next() {
		var p models.WeeklyTrendPoint
		if err := rows.Scan(&p.Week, &p.ActiveUsers, &p.Contributors, &p.Consumers); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		trend = append(trend, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trend points: %w", err)
	}
	return trend, nil
}
