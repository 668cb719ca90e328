package services

import (
	"context"
	"math"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/models"
	"github.com/knova-inc/knova-engine/pkg/repositories"
)

// defaultMetricsWindowDays is the range used when the caller gives no dates.
const defaultMetricsWindowDays = 30

var dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// MetricsService aggregates usage events into adoption metrics.
type MetricsService interface {
	// Adoption computes metrics over [from, to] (inclusive days, YYYY-MM-DD).
	// Malformed or missing bounds fall back to the last 30 days.
	Adoption(ctx context.Context, from, to string) (*models.AdoptionMetrics, error)
}

type metricsService struct {
	usageRepo repositories.UsageRepository
	now       func() time.Time
	logger    *zap.Logger
}

// NewMetricsService creates a new MetricsService.
func NewMetricsService(usageRepo repositories.UsageRepository, logger *zap.Logger) MetricsService {
	return &metricsService{
		usageRepo: usageRepo,
		now:       time.Now,
		logger:    logger.Named("metrics-service"),
	}
}

var _ MetricsService = (*metricsService)(nil)

func (s *metricsService) Adoption(ctx context.Context, from, to string) (*models.AdoptionMetrics, error) {
	fromDate, toDate := s.normalizeRange(from, to)

	start, _ := time.Parse(time.DateOnly, fromDate)
	end, _ := time.Parse(time.DateOnly, toDate)
	end = end.Add(24*time.Hour - time.Nanosecond)

	activeUsers, err := s.usageRepo.CountActiveUsers(ctx, start, end)
	if err != nil {
		return nil, err
	}
	contributors, err := s.usageRepo.CountContributors(ctx, start, end)
	if err != nil {
		return nil, err
	}
	consumers, err := s.usageRepo.CountConsumers(ctx, start, end)
	if err != nil {
		return nil, err
	}
	topEvents, err := s.usageRepo.TopEvents(ctx, start, end)
	if err != nil {
		return nil, err
	}
	trend, err := s.usageRepo.WeeklyTrend(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var rate float64
	if consumers > 0 {
		rate = math.Round(float64(contributors)/float64(consumers)*100) / 100
	}

	return &models.AdoptionMetrics{
		Range:                     models.DateRange{From: fromDate, To: toDate},
		ActiveUsers:               activeUsers,
		Contributors:              contributors,
		Consumers:                 consumers,
		ContributorVsConsumerRate: rate,
		TopEvents:                 topEvents,
		WeeklyTrend:               trend,
	}, nil
}

// normalizeRange validates the requested bounds and substitutes the default
// 30-day window for anything missing or malformed.
func (s *metricsService) normalizeRange(from, to string) (string, string) {
	now := s.now()
	defaultTo := now.Format(time.DateOnly)
	defaultFrom := now.AddDate(0, 0, -(defaultMetricsWindowDays - 1)).Format(time.DateOnly)

	if !dateOnlyPattern.MatchString(from) {
		from = defaultFrom
	}
	if !dateOnlyPattern.MatchString(to) {
		to = defaultTo
	}
	return from, to
}
