package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/almanar-institute/grades-api/internal/models"
)

const distributionColumns = `id, education_level, study_system,
        first_months_count, first_monthly_grade, first_period_exam,
        second_months_count, second_monthly_grade, second_period_exam,
        third_months_count, third_monthly_grade, third_period_exam,
        first_and_second_weight, third_period_weight, total_grade,
        created_at, updated_at`

// DistributionRepository persists grade-distribution overrides.
type DistributionRepository struct {
	db *sqlx.DB
}

// NewDistributionRepository constructs a DistributionRepository.
func NewDistributionRepository(db *sqlx.DB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

// FindByCohort fetches the override row for a (level, system) pair.
func (r *DistributionRepository) FindByCohort(ctx context.Context, level models.EducationLevel, system models.StudySystem) (*models.GradeDistributionRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM grade_distributions WHERE education_level = $1 AND study_system = $2`, distributionColumns)
	var row models.GradeDistributionRow
	if err := r.db.GetContext(ctx, &row, query, level, system); err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns every configured override.
func (r *DistributionRepository) List(ctx context.Context) ([]models.GradeDistributionRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM grade_distributions ORDER BY education_level, study_system`, distributionColumns)
	var rows []models.GradeDistributionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list grade distributions: %w", err)
	}
	return rows, nil
}

// Upsert inserts or replaces the override for the row's cohort.
func (r *DistributionRepository) Upsert(ctx context.Context, row *models.GradeDistributionRow) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	const query = `INSERT INTO grade_distributions (id, education_level, study_system,
        first_months_count, first_monthly_grade, first_period_exam,
        second_months_count, second_monthly_grade, second_period_exam,
        third_months_count, third_monthly_grade, third_period_exam,
        first_and_second_weight, third_period_weight, total_grade, created_at, updated_at)
        VALUES (:id, :education_level, :study_system,
        :first_months_count, :first_monthly_grade, :first_period_exam,
        :second_months_count, :second_monthly_grade, :second_period_exam,
        :third_months_count, :third_monthly_grade, :third_period_exam,
        :first_and_second_weight, :third_period_weight, :total_grade, :created_at, :updated_at)
        ON CONFLICT (education_level, study_system)
        DO UPDATE SET first_months_count = EXCLUDED.first_months_count,
            first_monthly_grade = EXCLUDED.first_monthly_grade,
            first_period_exam = EXCLUDED.first_period_exam,
            second_months_count = EXCLUDED.second_months_count,
            second_monthly_grade = EXCLUDED.second_monthly_grade,
            second_period_exam = EXCLUDED.second_period_exam,
            third_months_count = EXCLUDED.third_months_count,
            third_monthly_grade = EXCLUDED.third_monthly_grade,
            third_period_exam = EXCLUDED.third_period_exam,
            first_and_second_weight = EXCLUDED.first_and_second_weight,
            third_period_weight = EXCLUDED.third_period_weight,
            total_grade = EXCLUDED.total_grade,
            updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert grade distribution: %w", err)
	}
	return nil
}
