package repositories

import (
	"context"
	"fmt"

	"github.com/knova-inc/knova-engine/pkg/database"
	"github.com/knova-inc/knova-engine/pkg/models"
)

// AuditRepository provides access to the append-only audit log.
type AuditRepository interface {
	// Create inserts a new audit log entry. A nil ActorUserID records a
	// system (scheduler) action.
	Create(ctx context.Context, entry *models.AuditLogEntry) error

	// ListByContent returns all entries for an asset, newest first.
	ListByContent(ctx context.Context, contentID int64) ([]*models.AuditLogEntry, error)
}

type auditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *database.DB) AuditRepository {
	return &auditRepository{db: db}
}

var _ AuditRepository = (*auditRepository)(nil)

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (actor_user_id, action, content_id, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		entry.ActorUserID,
		entry.Action,
		entry.ContentID,
		nullString(entry.Notes),
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}

func (r *auditRepository) ListByContent(ctx context.Context, contentID int64) ([]*models.AuditLogEntry, error) {
	query := `
		SELECT al.id, al.actor_user_id, al.action, al.content_id, al.notes, al.created_at,
		       u.name, u.email
		FROM audit_logs al
		LEFT JOIN users u ON u.id = al.actor_user_id
		WHERE al.content_id = $1
		ORDER BY al.created_at DESC`

	rows, err := r.db.Querier(ctx).Query(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditLogEntry
	for rows.Next() {
		var entry models.AuditLogEntry
		var notes, actorName, actorEmail *string

		err := rows.Scan(&entry.ID, &entry.ActorUserID, &entry.Action,
			&entry.ContentID, &notes, &entry.CreatedAt, &actorName, &actorEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
		}

		entry.Notes = deref(notes)
		entry.ActorName = deref(actorName)
		entry.ActorEmail = deref(actorEmail)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log entries: %w", err)
	}
	return entries, nil
}
