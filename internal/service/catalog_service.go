package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/almanar-institute/grades-api/internal/grading"
	"github.com/almanar-institute/grades-api/internal/models"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
)

type catalogRepository interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	FindSubjectByID(ctx context.Context, id string) (*models.Subject, error)
	ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error)
	FindAcademicYearByID(ctx context.Context, id string) (*models.AcademicYear, error)
}

// CatalogService exposes the subject and academic-year reference data.
type CatalogService struct {
	repo   catalogRepository
	logger *zap.Logger
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(repo catalogRepository, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, logger: logger}
}

// ListSubjects returns every subject.
func (s *CatalogService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.repo.ListSubjects(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// GetSubject fetches a subject by id.
func (s *CatalogService) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindSubjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// ListAcademicYears returns every academic year.
func (s *CatalogService) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	years, err := s.repo.ListAcademicYears(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list academic years")
	}
	return years, nil
}

// GetAcademicYear fetches an academic year by id.
func (s *CatalogService) GetAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error) {
	year, err := s.repo.FindAcademicYearByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic year not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic year")
	}
	return year, nil
}

// PeriodOption is one selectable evaluation period for a cohort.
type PeriodOption struct {
	Key   models.PeriodKey `json:"key"`
	Label string           `json:"label"`
}

// AvailablePeriods returns the periods a cohort can be graded in, with their
// display labels.
func (s *CatalogService) AvailablePeriods(level models.EducationLevel, system models.StudySystem) ([]PeriodOption, error) {
	if !level.Valid() || !system.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown education level or study system")
	}
	keys := grading.AvailablePeriods(level, system)
	options := make([]PeriodOption, 0, len(keys))
	for _, key := range keys {
		options = append(options, PeriodOption{Key: key, Label: key.Label()})
	}
	return options, nil
}
