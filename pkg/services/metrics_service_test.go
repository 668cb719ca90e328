package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/models"
)

type mockUsageRepo struct {
	events []*models.UsageEvent

	activeUsers  int64
	contributors int64
	consumers    int64

	lastFrom time.Time
	lastTo   time.Time

	createErr error
}

func (m *mockUsageRepo) Create(_ context.Context, event *models.UsageEvent) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockUsageRepo) CountActiveUsers(_ context.Context, from, to time.Time) (int64, error) {
	m.lastFrom, m.lastTo = from, to
	return m.activeUsers, nil
}

func (m *mockUsageRepo) CountContributors(_ context.Context, _, _ time.Time) (int64, error) {
	return m.contributors, nil
}

func (m *mockUsageRepo) CountConsumers(_ context.Context, _, _ time.Time) (int64, error) {
	return m.consumers, nil
}

func (m *mockUsageRepo) TopEvents(_ context.Context, _, _ time.Time) ([]models.EventTypeCount, error) {
	return []models.EventTypeCount{{EventType: models.EventView, Count: 12}}, nil
}

func (m *mockUsageRepo) WeeklyTrend(_ context.Context, _, _ time.Time) ([]models.WeeklyTrendPoint, error) {
	return nil, nil
}

func newMetricsFixture(activeUsers, contributors, consumers int64) (*metricsService, *mockUsageRepo) {
	repo := &mockUsageRepo{
		activeUsers:  activeUsers,
		contributors: contributors,
		consumers:    consumers,
	}
	svc := NewMetricsService(repo, zap.NewNop()).(*metricsService)
	svc.now = func() time.Time {
		return time.Date(2026, 6, 30, 10, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func TestMetrics_Adoption_ExplicitRange(t *testing.T) {
	svc, repo := newMetricsFixture(10, 4, 8)

	metrics, err := svc.Adoption(context.Background(), "2026-06-01", "2026-06-07")
	require.NoError(t, err)

	assert.Equal(t, "2026-06-01", metrics.Range.From)
	assert.Equal(t, "2026-06-07", metrics.Range.To)
	assert.Equal(t, int64(10), metrics.ActiveUsers)
	assert.Equal(t, 0.5, metrics.ContributorVsConsumerRate)

	// The upper bound covers the whole final day.
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), repo.lastFrom)
	assert.Equal(t, 7, repo.lastTo.Day())
	assert.Equal(t, 23, repo.lastTo.Hour())
}

func TestMetrics_Adoption_DefaultsToLast30Days(t *testing.T) {
	svc, _ := newMetricsFixture(0, 0, 0)

	metrics, err := svc.Adoption(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "2026-06-01", metrics.Range.From)
	assert.Equal(t, "2026-06-30", metrics.Range.To)
}

func TestMetrics_Adoption_MalformedBoundsFallBack(t *testing.T) {
	svc, _ := newMetricsFixture(0, 0, 0)

	metrics, err := svc.Adoption(context.Background(), "June 1", "2026-6-7")
	require.NoError(t, err)

	assert.Equal(t, "2026-06-01", metrics.Range.From)
	assert.Equal(t, "2026-06-30", metrics.Range.To)
}

func TestMetrics_Adoption_ZeroConsumersGivesZeroRate(t *testing.T) {
	svc, _ := newMetricsFixture(5, 3, 0)

	metrics, err := svc.Adoption(context.Background(), "2026-06-01", "2026-06-07")
	require.NoError(t, err)

	assert.Equal(t, float64(0), metrics.ContributorVsConsumerRate)
}

func TestMetrics_Adoption_RateRoundedToTwoDecimals(t *testing.T) {
	svc, _ := newMetricsFixture(9, 1, 3)

	metrics, err := svc.Adoption(context.Background(), "2026-06-01", "2026-06-07")
	require.NoError(t, err)

	assert.Equal(t, 0.33, metrics.ContributorVsConsumerRate)
}
