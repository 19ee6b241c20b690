package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/almanar-institute/grades-api/internal/grading"
	"github.com/almanar-institute/grades-api/internal/models"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
)

type mockDistributionRepo struct {
	rows map[string]*models.GradeDistributionRow
}

func distKey(level models.EducationLevel, system models.StudySystem) string {
	return string(level) + "/" + string(system)
}

func (m *mockDistributionRepo) FindByCohort(ctx context.Context, level models.EducationLevel, system models.StudySystem) (*models.GradeDistributionRow, error) {
	if row, ok := m.rows[distKey(level, system)]; ok {
		return row, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDistributionRepo) List(ctx context.Context) ([]models.GradeDistributionRow, error) {
	out := make([]models.GradeDistributionRow, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (m *mockDistributionRepo) Upsert(ctx context.Context, row *models.GradeDistributionRow) error {
	if m.rows == nil {
		m.rows = make(map[string]*models.GradeDistributionRow)
	}
	row.ID = "d-1"
	m.rows[distKey(row.EducationLevel, row.StudySystem)] = row
	return nil
}

type mockDistributionCache struct {
	entries map[string][]byte
	hits    int
	deletes []string
}

func (m *mockDistributionCache) Get(ctx context.Context, key string, dest any) error {
	if _, ok := m.entries[key]; ok {
		m.hits++
		return nil
	}
	return appErrors.ErrCacheMiss
}

func (m *mockDistributionCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = nil
	return nil
}

func (m *mockDistributionCache) Delete(ctx context.Context, keys ...string) error {
	m.deletes = append(m.deletes, keys...)
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func TestDistributionServiceResolveFallsBackToBuiltins(t *testing.T) {
	svc := NewDistributionService(&mockDistributionRepo{}, nil, validator.New(), zap.NewNop(), time.Minute)

	dist, err := svc.Resolve(context.Background(), models.LevelFirstYear, models.SystemRegular)
	require.NoError(t, err)
	assert.Equal(t, grading.ResolveDistribution(models.LevelFirstYear, models.SystemRegular), dist)
}

func TestDistributionServiceResolvePrefersStoredOverride(t *testing.T) {
	repo := &mockDistributionRepo{rows: map[string]*models.GradeDistributionRow{
		distKey(models.LevelFirstYear, models.SystemRegular): {
			ID:                   "d-1",
			EducationLevel:       models.LevelFirstYear,
			StudySystem:          models.SystemRegular,
			FirstMonthsCount:     2,
			FirstMonthlyGrade:    15,
			FirstPeriodExam:      70,
			SecondMonthsCount:    2,
			SecondMonthlyGrade:   15,
			SecondPeriodExam:     70,
			ThirdPeriodExam:      100,
			FirstAndSecondWeight: 0.4,
			ThirdPeriodWeight:    0.6,
			TotalGrade:           100,
		},
	}}
	svc := NewDistributionService(repo, nil, validator.New(), zap.NewNop(), time.Minute)

	dist, err := svc.Resolve(context.Background(), models.LevelFirstYear, models.SystemRegular)
	require.NoError(t, err)
	assert.Equal(t, 2, dist.Period(models.PeriodFirst).MonthsCount)
	assert.Equal(t, 0.6, dist.FinalCalculation.ThirdPeriodWeight)
}

func TestDistributionServiceResolveUnknownCohort(t *testing.T) {
	svc := NewDistributionService(&mockDistributionRepo{}, nil, validator.New(), zap.NewNop(), time.Minute)

	_, err := svc.Resolve(context.Background(), "السنة الرابعة", models.SystemRegular)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestDistributionServiceSaveRejectsBrokenWeights(t *testing.T) {
	svc := NewDistributionService(&mockDistributionRepo{}, nil, validator.New(), zap.NewNop(), time.Minute)

	dist := grading.ResolveDistribution(models.LevelFirstYear, models.SystemRegular)
	dist.FinalCalculation.FirstAndSecondWeight = 0.5
	dist.FinalCalculation.ThirdPeriodWeight = 0.6

	_, err := svc.Save(context.Background(), models.LevelFirstYear, models.SystemRegular, dist)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestDistributionServiceSaveInvalidatesCache(t *testing.T) {
	repo := &mockDistributionRepo{}
	cache := &mockDistributionCache{entries: map[string][]byte{
		distributionCacheKey(models.LevelFirstYear, models.SystemRegular): nil,
	}}
	svc := NewDistributionService(repo, cache, validator.New(), zap.NewNop(), time.Minute)

	dist := grading.ResolveDistribution(models.LevelFirstYear, models.SystemRegular)
	row, err := svc.Save(context.Background(), models.LevelFirstYear, models.SystemRegular, dist)
	require.NoError(t, err)
	assert.Equal(t, "d-1", row.ID)
	assert.Contains(t, cache.deletes, distributionCacheKey(models.LevelFirstYear, models.SystemRegular))
}

func TestDistributionServiceResolveUsesCache(t *testing.T) {
	repo := &mockDistributionRepo{}
	cache := &mockDistributionCache{entries: map[string][]byte{
		distributionCacheKey(models.LevelFirstYear, models.SystemRegular): nil,
	}}
	svc := NewDistributionService(repo, cache, validator.New(), zap.NewNop(), time.Minute)

	_, err := svc.Resolve(context.Background(), models.LevelFirstYear, models.SystemRegular)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
}
