package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/almanar-institute/grades-api/internal/models"
)

// CatalogRepository serves the subject and academic-year reference data.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListSubjects returns all subjects ordered by name.
func (r *CatalogRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT id, name, created_at FROM subjects ORDER BY name ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindSubjectByID fetches one subject.
func (r *CatalogRepository) FindSubjectByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, name, created_at FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// FindSubjectByName fetches a subject by its exact name. Spreadsheet imports
// reference subjects by name rather than ID.
func (r *CatalogRepository) FindSubjectByName(ctx context.Context, name string) (*models.Subject, error) {
	const query = `SELECT id, name, created_at FROM subjects WHERE name = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, name); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListAcademicYears returns all academic years, newest first.
func (r *CatalogRepository) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	const query = `SELECT id, name, active, created_at FROM academic_years ORDER BY name DESC`
	var years []models.AcademicYear
	if err := r.db.SelectContext(ctx, &years, query); err != nil {
		return nil, fmt.Errorf("list academic years: %w", err)
	}
	return years, nil
}

// FindAcademicYearByID fetches one academic year.
func (r *CatalogRepository) FindAcademicYearByID(ctx context.Context, id string) (*models.AcademicYear, error) {
	const query = `SELECT id, name, active, created_at FROM academic_years WHERE id = $1`
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query, id); err != nil {
		return nil, err
	}
	return &year, nil
}
