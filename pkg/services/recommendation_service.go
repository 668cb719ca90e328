package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/repositories"
)

// recommendationLimit is how many candidates one request scores.
const recommendationLimit = 8

// RecommendationService produces scored suggestions of published assets.
// Scores are a position-decayed heuristic with jitter, not a ranking engine.
type RecommendationService interface {
	Recommend(ctx context.Context, workspaceID *int64) ([]*models.Recommendation, error)
}

type recommendationService struct {
	recRepo repositories.RecommendationRepository
	now     func() time.Time
	rand    *rand.Rand
	logger  *zap.Logger
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(recRepo repositories.RecommendationRepository, logger *zap.Logger) RecommendationService {
	return &recommendationService{
		recRepo: recRepo,
		now:     time.Now,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  logger.Named("recommendation-service"),
	}
}

var _ RecommendationService = (*recommendationService)(nil)

func (s *recommendationService) Recommend(ctx context.Context, workspaceID *int64) ([]*models.Recommendation, error) {
	assets, err := s.recRepo.RecentPublished(ctx, workspaceID, recommendationLimit)
	if err != nil {
		return nil, err
	}

	generatedOn := s.now()
	recommendations := make([]*models.Recommendation, 0, len(assets))

	for position, asset := range assets {
		rec := &models.Recommendation{
			AssetID:       asset.ID,
			Title:         asset.Title,
			Description:   asset.Description,
			Score:         s.score(position),
			Explanation:   explain(asset),
			GeneratedOn:   generatedOn,
			WorkspaceID:   asset.WorkspaceID,
			WorkspaceName: asset.WorkspaceName,
		}
		if err := s.recRepo.Create(ctx, rec); err != nil {
			return nil, err
		}
		recommendations = append(recommendations, rec)
	}
	return recommendations, nil
}

// score decays with list position and adds a small jitter so repeated calls
// do not return identical numbers.
func (s *recommendationService) score(position int) float64 {
	base := math.Max(0.5, 0.95-float64(position)*0.08)
	return math.Round((base+s.rand.Float64()*0.1)*100) / 100
}

func explain(asset *models.KnowledgeAsset) string {
	workspace := asset.WorkspaceName
	if workspace == "" {
		workspace = "workspace"
	}
	if asset.AssetType != "" {
		return fmt.Sprintf("High relevance for %s assets in %s.", asset.AssetType, workspace)
	}
	return fmt.Sprintf("Popular published asset in %s.", workspace)
}
