package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/almanar-institute/grades-api/internal/grading"
	"github.com/almanar-institute/grades-api/internal/models"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
)

type distributionRepository interface {
	FindByCohort(ctx context.Context, level models.EducationLevel, system models.StudySystem) (*models.GradeDistributionRow, error)
	List(ctx context.Context) ([]models.GradeDistributionRow, error)
	Upsert(ctx context.Context, row *models.GradeDistributionRow) error
}

type distributionCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// DistributionService resolves and maintains per-cohort grade distributions.
// Cohorts without a stored override fall back to the built-in rule set, so
// resolution always succeeds.
type DistributionService struct {
	repo         distributionRepository
	cache        distributionCache
	validator    *validator.Validate
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewDistributionService constructs a DistributionService. The cache is
// optional; pass nil to disable it.
func NewDistributionService(repo distributionRepository, cache distributionCache, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *DistributionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DistributionService{
		repo:         repo,
		cache:        cache,
		validator:    validate,
		logger:       logger,
		cacheEnabled: cache != nil,
		cacheTTL:     cacheTTL,
	}
}

func distributionCacheKey(level models.EducationLevel, system models.StudySystem) string {
	return fmt.Sprintf("grades:distribution:%s:%s", level, system)
}

// Resolve returns the effective distribution for a cohort. A stored override
// wins; otherwise the built-in rules apply.
func (s *DistributionService) Resolve(ctx context.Context, level models.EducationLevel, system models.StudySystem) (models.GradeDistribution, error) {
	if !level.Valid() || !system.Valid() {
		return models.GradeDistribution{}, appErrors.Clone(appErrors.ErrValidation, "unknown education level or study system")
	}

	key := distributionCacheKey(level, system)
	if s.cacheEnabled {
		var cached models.GradeDistribution
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !appErrors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("distribution cache read failed", zap.Error(err))
		}
	}

	var dist models.GradeDistribution
	row, err := s.repo.FindByCohort(ctx, level, system)
	switch {
	case err == nil:
		dist = row.Distribution()
	case errors.Is(err, sql.ErrNoRows):
		dist = grading.ResolveDistribution(level, system)
	default:
		return models.GradeDistribution{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade distribution")
	}

	if s.cacheEnabled {
		if err := s.cache.Set(ctx, key, dist, s.cacheTTL); err != nil {
			s.logger.Warn("distribution cache write failed", zap.Error(err))
		}
	}
	return dist, nil
}

// List returns every stored override.
func (s *DistributionService) List(ctx context.Context) ([]models.GradeDistributionRow, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade distributions")
	}
	return rows, nil
}

// Save validates and stores an override for a cohort, then drops the cached
// entry so the next resolve sees the new rules.
func (s *DistributionService) Save(ctx context.Context, level models.EducationLevel, system models.StudySystem, dist models.GradeDistribution) (*models.GradeDistributionRow, error) {
	if !level.Valid() || !system.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown education level or study system")
	}
	dist.EducationLevel = level
	dist.StudySystem = system
	if err := grading.ValidateDistribution(dist); err != nil {
		return nil, err
	}

	row := models.RowFromDistribution(dist)
	if err := s.repo.Upsert(ctx, &row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grade distribution")
	}

	if s.cacheEnabled {
		if err := s.cache.Delete(ctx, distributionCacheKey(level, system)); err != nil {
			s.logger.Warn("distribution cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("grade distribution saved",
		zap.String("education_level", string(level)),
		zap.String("study_system", string(system)))
	return &row, nil
}
