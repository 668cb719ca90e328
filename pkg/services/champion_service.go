package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/repositories"
)

// ChampionService manages knowledge champion assignments.
type ChampionService interface {
	List(ctx context.Context, region string) ([]*models.ChampionAssignment, error)
	// Assign promotes a user to champion for a region. The role change and
	// the assignment row are written in one transaction.
	Assign(ctx context.Context, championUserID int64, region string) error
}

type championService struct {
	tx           TxRunner
	championRepo repositories.ChampionRepository
	userRepo     repositories.UserRepository
	logger       *zap.Logger
}

// NewChampionService creates a new ChampionService.
func NewChampionService(
	tx TxRunner,
	championRepo repositories.ChampionRepository,
	userRepo repositories.UserRepository,
	logger *zap.Logger,
) ChampionService {
	return &championService{
		tx:           tx,
		championRepo: championRepo,
		userRepo:     userRepo,
		logger:       logger.Named("champion-service"),
	}
}

var _ ChampionService = (*championService)(nil)

func (s *championService) List(ctx context.Context, region string) ([]*models.ChampionAssignment, error) {
	return s.championRepo.List(ctx, region)
}

func (s *championService) Assign(ctx context.Context, championUserID int64, region string) error {
	if _, err := s.userRepo.GetByID(ctx, championUserID); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.SetRole(ctx, championUserID, models.RoleChampion); err != nil {
			return err
		}
		return s.championRepo.CreateAssignment(ctx, championUserID, region)
	})
}
