package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almanar-institute/grades-api/internal/models"
)

func TestDistributionRepositoryFindByCohort(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDistributionRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "education_level", "study_system",
		"first_months_count", "first_monthly_grade", "first_period_exam",
		"second_months_count", "second_monthly_grade", "second_period_exam",
		"third_months_count", "third_monthly_grade", "third_period_exam",
		"first_and_second_weight", "third_period_weight", "total_grade",
		"created_at", "updated_at",
	}).AddRow("d-1", "السنة الأولى", "نظامي",
		3, 10.0, 70.0,
		3, 10.0, 70.0,
		0, 0.0, 100.0,
		0.3, 0.7, 100.0,
		time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM grade_distributions").
		WithArgs("السنة الأولى", "نظامي").
		WillReturnRows(rows)

	row, err := repo.FindByCohort(context.Background(), models.LevelFirstYear, models.SystemRegular)
	require.NoError(t, err)
	assert.Equal(t, 3, row.FirstMonthsCount)
	assert.Equal(t, 0.7, row.ThirdPeriodWeight)

	dist := row.Distribution()
	assert.Equal(t, 100.0, dist.FinalCalculation.TotalGrade)
}

func TestDistributionRepositoryFindByCohortMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDistributionRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM grade_distributions").
		WithArgs("السنة الثانية", "انتساب").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByCohort(context.Background(), models.LevelSecondYear, models.SystemDistance)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDistributionRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDistributionRepository(db)

	mock.ExpectExec("INSERT INTO grade_distributions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	row := &models.GradeDistributionRow{
		EducationLevel:       models.LevelThirdYear,
		StudySystem:          models.SystemRegular,
		FirstMonthsCount:     3,
		FirstMonthlyGrade:    10,
		FirstPeriodExam:      90,
		SecondMonthsCount:    3,
		SecondMonthlyGrade:   10,
		SecondPeriodExam:     90,
		FirstAndSecondWeight: 1,
		ThirdPeriodWeight:    0,
		TotalGrade:           100,
	}
	require.NoError(t, repo.Upsert(context.Background(), row))
	assert.NotEmpty(t, row.ID)
	assert.False(t, row.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
