package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/almanar-institute/grades-api/internal/models"
)

const gradeColumns = `id, student_id, subject_id, subject_name, academic_year_id, period,
        month1, month2, month3, period_exam,
        work_total, period_total, percentage, letter_grade, grade_color,
        review_state, created_at, updated_at`

// GradeRepository persists student grade records.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// ListByScope returns the saved rows for a (subject, academic year, period)
// scope, one per student that has been graded in it.
func (r *GradeRepository) ListByScope(ctx context.Context, scope models.GradeScope) ([]models.StudentGradeRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_grades
        WHERE subject_id = $1 AND academic_year_id = $2 AND period = $3`, gradeColumns)
	var rows []models.StudentGradeRecord
	if err := r.db.SelectContext(ctx, &rows, query, scope.SubjectID, scope.AcademicYearID, scope.Period); err != nil {
		return nil, fmt.Errorf("list grades by scope: %w", err)
	}
	return rows, nil
}

// FindByKey fetches a single row by its natural key.
func (r *GradeRepository) FindByKey(ctx context.Context, studentID string, scope models.GradeScope) (*models.StudentGradeRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_grades
        WHERE student_id = $1 AND subject_id = $2 AND academic_year_id = $3 AND period = $4`, gradeColumns)
	var row models.StudentGradeRecord
	if err := r.db.GetContext(ctx, &row, query, studentID, scope.SubjectID, scope.AcademicYearID, scope.Period); err != nil {
		return nil, err
	}
	return &row, nil
}

// BulkUpsert writes a batch of records inside one transaction. Either every
// row lands or none do.
func (r *GradeRepository) BulkUpsert(ctx context.Context, records []models.StudentGradeRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin grade batch: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO student_grades (id, student_id, subject_id, subject_name, academic_year_id, period,
        month1, month2, month3, period_exam,
        work_total, period_total, percentage, letter_grade, grade_color,
        review_state, created_at, updated_at)
        VALUES (:id, :student_id, :subject_id, :subject_name, :academic_year_id, :period,
        :month1, :month2, :month3, :period_exam,
        :work_total, :period_total, :percentage, :letter_grade, :grade_color,
        :review_state, :created_at, :updated_at)
        ON CONFLICT (student_id, subject_id, academic_year_id, period)
        DO UPDATE SET subject_name = EXCLUDED.subject_name,
            month1 = EXCLUDED.month1,
            month2 = EXCLUDED.month2,
            month3 = EXCLUDED.month3,
            period_exam = EXCLUDED.period_exam,
            work_total = EXCLUDED.work_total,
            period_total = EXCLUDED.period_total,
            percentage = EXCLUDED.percentage,
            letter_grade = EXCLUDED.letter_grade,
            grade_color = EXCLUDED.grade_color,
            review_state = EXCLUDED.review_state,
            updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for i := range records {
		rec := &records[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		rec.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, rec); err != nil {
			return fmt.Errorf("upsert grade for student %s: %w", rec.StudentID, err)
		}
	}
	return tx.Commit()
}

// PriorTotals loads the persisted first and second period totals for a set of
// students, keyed by student id. Students with no saved rows simply have nil
// entries; the third-period flow treats those as missing prerequisites.
func (r *GradeRepository) PriorTotals(ctx context.Context, studentIDs []string, subjectID, academicYearID string) (map[string]models.PeriodTotals, error) {
	const query = `SELECT student_id, period, period_total FROM student_grades
        WHERE student_id = ANY($1) AND subject_id = $2 AND academic_year_id = $3
          AND period IN ('firstPeriod', 'secondPeriod')`
	rows, err := r.db.QueryxContext(ctx, query, pq.Array(studentIDs), subjectID, academicYearID)
	if err != nil {
		return nil, fmt.Errorf("load prior period totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]models.PeriodTotals, len(studentIDs))
	for rows.Next() {
		var (
			studentID   string
			period      models.PeriodKey
			periodTotal float64
		)
		if err := rows.Scan(&studentID, &period, &periodTotal); err != nil {
			return nil, fmt.Errorf("scan prior period total: %w", err)
		}
		t := totals[studentID]
		v := periodTotal
		switch period {
		case models.PeriodFirst:
			t.First = &v
		case models.PeriodSecond:
			t.Second = &v
		}
		totals[studentID] = t
	}
	return totals, rows.Err()
}
