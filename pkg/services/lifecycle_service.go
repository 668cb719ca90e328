package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/apperrors"
	"github.com/knova-inc/knova-engine/pkg/config"
	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/repositories"
)

// TxRunner runs a function inside a single database transaction.
// Satisfied by *database.DB.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SweepResult summarizes one lifecycle sweep run.
type SweepResult struct {
	MarkedNeedsReview int
	MarkedExpired     int
	Failed            int
}

// LifecycleService owns the knowledge asset lifecycle: the status transition
// rules, the metadata-completeness gate on submission, and the time-based
// sweep that ages published assets forward. Every mutating operation runs as
// one transaction covering the status write, date stamps, and audit /
// governance appends.
type LifecycleService interface {
	Create(ctx context.Context, ownerUserID int64, fields models.AssetFields, tagIDs []int64) (*models.KnowledgeAsset, error)
	UpdateDraft(ctx context.Context, assetID, actorUserID int64, fields models.AssetFields, tagIDs []int64) error
	DeleteDraft(ctx context.Context, assetID, actorUserID int64) error
	Submit(ctx context.Context, assetID, actorUserID int64) error
	Approve(ctx context.Context, assetID, actorUserID int64, comments, outcome string, issues []string) error
	Reject(ctx context.Context, assetID, actorUserID int64, comment string) error
	Revalidate(ctx context.Context, assetID, actorUserID int64, notes string) error
	Sweep(ctx context.Context) (SweepResult, error)
}

type lifecycleService struct {
	tx             TxRunner
	assetRepo      repositories.AssetRepository
	tagRepo        repositories.TagRepository
	governanceRepo repositories.GovernanceRepository
	auditRepo      repositories.AuditRepository
	reviewDue      time.Duration
	expiry         time.Duration
	now            func() time.Time
	logger         *zap.Logger
}

// NewLifecycleService creates a new LifecycleService. ReviewDueDays and
// ExpiryDays are read from cfg once here; the service never consults
// configuration again.
func NewLifecycleService(
	tx TxRunner,
	assetRepo repositories.AssetRepository,
	tagRepo repositories.TagRepository,
	governanceRepo repositories.GovernanceRepository,
	auditRepo repositories.AuditRepository,
	cfg config.GovernanceConfig,
	logger *zap.Logger,
) LifecycleService {
	return &lifecycleService{
		tx:             tx,
		assetRepo:      assetRepo,
		tagRepo:        tagRepo,
		governanceRepo: governanceRepo,
		auditRepo:      auditRepo,
		reviewDue:      time.Duration(cfg.ReviewDueDays) * 24 * time.Hour,
		expiry:         time.Duration(cfg.ExpiryDays) * 24 * time.Hour,
		now:            time.Now,
		logger:         logger.Named("lifecycle-service"),
	}
}

var _ LifecycleService = (*lifecycleService)(nil)

func (s *lifecycleService) Create(ctx context.Context, ownerUserID int64, fields models.AssetFields, tagIDs []int64) (*models.KnowledgeAsset, error) {
	fields.Normalize()

	if err := s.validateTagIDs(ctx, tagIDs); err != nil {
		return nil, err
	}

	asset := &models.KnowledgeAsset{
		Title:           fields.Title,
		Description:     fields.Description,
		Status:          models.StatusDraft,
		OwnerUserID:     ownerUserID,
		Keywords:        fields.Keywords,
		SourceURL:       fields.SourceURL,
		AssetType:       fields.AssetType,
		Confidentiality: fields.Confidentiality,
		SourceProjectID: fields.SourceProjectID,
		WorkspaceID:     fields.WorkspaceID,
		VersionMajor:    fields.VersionMajor,
		VersionMinor:    fields.VersionMinor,
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.assetRepo.Create(ctx, asset); err != nil {
			return err
		}
		if len(tagIDs) > 0 {
			return s.assetRepo.ReplaceTags(ctx, asset.ID, tagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *lifecycleService) UpdateDraft(ctx context.Context, assetID, actorUserID int64, fields models.AssetFields, tagIDs []int64) error {
	fields.Normalize()

	if err := s.validateTagIDs(ctx, tagIDs); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		asset, err := s.assetRepo.GetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.OwnerUserID != actorUserID {
			return apperrors.ErrForbidden
		}
		if asset.Status != models.StatusDraft {
			return &apperrors.InvalidTransitionError{Operation: "update", Current: asset.Status.String()}
		}

		asset.Title = fields.Title
		asset.Description = fields.Description
		asset.Keywords = fields.Keywords
		asset.SourceURL = fields.SourceURL
		asset.AssetType = fields.AssetType
		asset.Confidentiality = fields.Confidentiality
		asset.SourceProjectID = fields.SourceProjectID
		asset.WorkspaceID = fields.WorkspaceID
		asset.VersionMajor = fields.VersionMajor
		asset.VersionMinor = fields.VersionMinor

		if err := s.assetRepo.UpdateFields(ctx, asset); err != nil {
			return err
		}
		return s.assetRepo.ReplaceTags(ctx, assetID, tagIDs)
	})
}

func (s *lifecycleService) DeleteDraft(ctx context.Context, assetID, actorUserID int64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		asset, err := s.assetRepo.GetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.OwnerUserID != actorUserID {
			return apperrors.ErrForbidden
		}
		if asset.Status != models.StatusDraft {
			return &apperrors.InvalidTransitionError{Operation: "delete", Current: asset.Status.String()}
		}
		return s.assetRepo.Delete(ctx, assetID)
	})
}

func (s *lifecycleService) Submit(ctx context.Context, assetID, actorUserID int64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		asset, err := s.assetRepo.GetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.OwnerUserID != actorUserID {
			return apperrors.ErrForbidden
		}
		if asset.Status != models.StatusDraft {
			return &apperrors.InvalidTransitionError{Operation: "submit", Current: asset.Status.String()}
		}

		attached, err := s.assetRepo.DistinctTagTypes(ctx, assetID)
		if err != nil {
			return err
		}
		if missing := models.MissingTagTypes(attached); len(missing) > 0 {
			names := make([]string, len(missing))
			for i, m := range missing {
				names[i] = string(m)
			}
			return &apperrors.ValidationError{Missing: names}
		}

		return s.assetRepo.SetStatus(ctx, assetID, models.StatusPendingReview)
	})
}

func (s *lifecycleService) Approve(ctx context.Context, assetID, actorUserID int64, comments, outcome string, issues []string) error {
	if outcome == "" {
		outcome = models.GovernanceActionApproved
	}

	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		asset, err := s.assetRepo.GetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.Status != models.StatusPendingReview {
			return &apperrors.InvalidTransitionError{Operation: "approve", Current: asset.Status.String()}
		}

		now := s.now()
		if err := s.assetRepo.MarkReviewed(ctx, assetID, now, now.Add(s.reviewDue), now.Add(s.expiry)); err != nil {
			return err
		}

		action := &models.GovernanceAction{
			AssetID:     assetID,
			Action:      models.GovernanceActionApproved,
			ActorUserID: actorUserID,
			Comments:    comments,
			Outcome:     outcome,
			Issues:      issues,
		}
		if err := s.governanceRepo.CreateAction(ctx, action); err != nil {
			return err
		}

		if err := s.appendAudit(ctx, &actorUserID, models.AuditActionApprove, assetID, comments); err != nil {
			return err
		}

		event := &models.IntegrationEvent{
			SourceSystem: "governance",
			PayloadHash:  fmt.Sprintf("asset:%d:outcome:%s", assetID, outcome),
		}
		return s.governanceRepo.CreateIntegrationEvent(ctx, event)
	})
}

func (s *lifecycleService) Reject(ctx context.Context, assetID, actorUserID int64, comment string) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		asset, err := s.assetRepo.GetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if asset.Status != models.StatusPendingReview {
			return &apperrors.InvalidTransitionError{Operation: "reject", Current: asset.Status.String()}
		}

		if err := s.assetRepo.MarkRejected(ctx, assetID, comment); err != nil {
			return err
		}

		action := &models.GovernanceAction{
			AssetID:     assetID,
			Action:      models.GovernanceActionRejected,
			ActorUserID: actorUserID,
			Comments:    comment,
			Outcome:     models.GovernanceActionRejected,
		}
		if err := s.governanceRepo.CreateAction(ctx, action); err != nil {
			return err
		}

		return s.appendAudit(ctx, &actorUserID, models.AuditActionReject, assetID, comment)
	})
}

func (s *lifecycleService) Revalidate(ctx context.Context, assetID, actorUserID int64, notes string) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		asset, err := s.assetRepo.GetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if !asset.Status.CanRevalidate() {
			return &apperrors.InvalidTransitionError{Operation: "revalidate", Current: asset.Status.String()}
		}

		now := s.now()
		if err := s.assetRepo.MarkReviewed(ctx, assetID, now, now.Add(s.reviewDue), now.Add(s.expiry)); err != nil {
			return err
		}

		return s.appendAudit(ctx, &actorUserID, models.AuditActionRevalidate, assetID, notes)
	})
}

// Sweep advances published assets whose review-due date has passed to
// needs_review and published/needs_review assets whose expiry has passed to
// expired. Each asset transitions in its own transaction, so one failure
// never blocks the rest; the guard is rechecked under the row lock, which
// also makes an immediately repeated sweep a no-op.
func (s *lifecycleService) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	now := s.now()

	overdue, err := s.assetRepo.ListReviewOverdue(ctx, now)
	if err != nil {
		return result, fmt.Errorf("failed to list review-overdue assets: %w", err)
	}
	for _, assetID := range overdue {
		if err := s.sweepOne(ctx, assetID, now, false); err != nil {
			s.logger.Error("Sweep failed for asset",
				zap.Int64("asset_id", assetID),
				zap.Error(err))
			result.Failed++
			continue
		}
		result.MarkedNeedsReview++
	}

	expired, err := s.assetRepo.ListExpiryPassed(ctx, now)
	if err != nil {
		return result, fmt.Errorf("failed to list expired assets: %w", err)
	}
	for _, assetID := range expired {
		if err := s.sweepOne(ctx, assetID, now, true); err != nil {
			s.logger.Error("Sweep failed for asset",
				zap.Int64("asset_id", assetID),
				zap.Error(err))
			result.Failed++
			continue
		}
		result.MarkedExpired++
	}

	return result, nil
}

// sweepOne applies a single time-based transition under its own transaction.
// The candidate query ran without a lock, so the guard is rechecked here.
func (s *lifecycleService) sweepOne(ctx context.Context, assetID int64, now time.Time, expire bool) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		asset, err := s.assetRepo.GetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}

		if expire {
			stillDue := (asset.Status == models.StatusPublished || asset.Status == models.StatusNeedsReview) &&
				asset.ExpiryAt != nil && asset.ExpiryAt.Before(now)
			if !stillDue {
				return nil
			}
			if err := s.assetRepo.SetStatus(ctx, assetID, models.StatusExpired); err != nil {
				return err
			}
			return s.appendAudit(ctx, nil, models.AuditActionExpire, assetID, "Auto-expired by scheduler")
		}

		stillDue := asset.Status == models.StatusPublished &&
			asset.ReviewDueAt != nil && asset.ReviewDueAt.Before(now)
		if !stillDue {
			return nil
		}
		if err := s.assetRepo.SetStatus(ctx, assetID, models.StatusNeedsReview); err != nil {
			return err
		}
		return s.appendAudit(ctx, nil, models.AuditActionMarkNeedsReview, assetID, "Auto-marked by scheduler")
	})
}

func (s *lifecycleService) appendAudit(ctx context.Context, actorUserID *int64, action string, assetID int64, notes string) error {
	entry := &models.AuditLogEntry{
		ActorUserID: actorUserID,
		Action:      action,
		ContentID:   assetID,
		Notes:       notes,
	}
	return s.auditRepo.Create(ctx, entry)
}

// validateTagIDs rejects tag id lists that reference unknown catalog
// entries, so callers see a clean error instead of a foreign key violation.
func (s *lifecycleService) validateTagIDs(ctx context.Context, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	distinct := make(map[int64]bool, len(tagIDs))
	for _, id := range tagIDs {
		distinct[id] = true
	}

	count, err := s.tagRepo.CountExisting(ctx, tagIDs)
	if err != nil {
		return err
	}
	if count != len(distinct) {
		return fmt.Errorf("one or more tag ids do not exist: %w", apperrors.ErrNotFound)
	}
	return nil
}
