package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/almanar-institute/grades-api/internal/models"
)

type mockStudentRepo struct {
	students []models.Student
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return m.students, len(m.students), nil
}

func (m *mockStudentRepo) ListByCohort(ctx context.Context, academicYearID string, level models.EducationLevel, system models.StudySystem) ([]models.Student, error) {
	out := make([]models.Student, 0)
	for _, s := range m.students {
		if s.AcademicYearID == academicYearID && s.EducationLevel == level && s.StudySystem == system {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	for i := range m.students {
		if m.students[i].ID == id {
			return &m.students[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.students = append(m.students, *student)
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	for i := range m.students {
		if m.students[i].ID == student.ID {
			m.students[i] = *student
		}
	}
	return nil
}

type mockGradeReader struct {
	rows []models.StudentGradeRecord
}

func (m *mockGradeReader) ListByScope(ctx context.Context, scope models.GradeScope) ([]models.StudentGradeRecord, error) {
	return m.rows, nil
}

func regularCohort() []models.Student {
	return []models.Student{
		{ID: "s-1", FullName: "أحمد خالد", EducationLevel: models.LevelFirstYear, StudySystem: models.SystemRegular, AcademicYearID: "y-1", Active: true},
		{ID: "s-2", FullName: "سارة محمود", EducationLevel: models.LevelFirstYear, StudySystem: models.SystemRegular, AcademicYearID: "y-1", Active: true},
	}
}

func TestStudentServiceRosterMergesSavedGrades(t *testing.T) {
	repo := &mockStudentRepo{students: regularCohort()}
	grades := &mockGradeReader{rows: []models.StudentGradeRecord{
		{ID: "g-1", StudentID: "s-1", Period: models.PeriodFirst, PeriodTotal: 73.5, LetterGrade: "جيد", ReviewState: models.ReviewApproved},
	}}
	svc := NewStudentService(repo, grades, validator.New(), zap.NewNop())

	roster, err := svc.Roster(context.Background(), RosterRequest{
		AcademicYearID: "y-1",
		EducationLevel: models.LevelFirstYear,
		StudySystem:    models.SystemRegular,
		SubjectID:      "sub-1",
		Period:         models.PeriodFirst,
	})
	require.NoError(t, err)
	require.Len(t, roster, 2)

	assert.True(t, roster[0].Editable)
	require.NotNil(t, roster[0].Grade)
	assert.Equal(t, 73.5, roster[0].Grade.PeriodTotal)

	assert.True(t, roster[1].Editable)
	assert.Nil(t, roster[1].Grade)
}

func TestStudentServiceRosterNamesOnlyForUnavailablePeriod(t *testing.T) {
	students := regularCohort()
	for i := range students {
		students[i].EducationLevel = models.LevelThirdYear
		students[i].StudySystem = models.SystemDistance
	}
	repo := &mockStudentRepo{students: students}
	grades := &mockGradeReader{rows: []models.StudentGradeRecord{{StudentID: "s-1"}}}
	svc := NewStudentService(repo, grades, validator.New(), zap.NewNop())

	roster, err := svc.Roster(context.Background(), RosterRequest{
		AcademicYearID: "y-1",
		EducationLevel: models.LevelThirdYear,
		StudySystem:    models.SystemDistance,
		SubjectID:      "sub-1",
		Period:         models.PeriodFirst,
	})
	require.NoError(t, err)
	require.Len(t, roster, 2)
	for _, entry := range roster {
		assert.False(t, entry.Editable)
		assert.Nil(t, entry.Grade)
	}
}

func TestStudentServiceListValidatesCohortValues(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockGradeReader{}, validator.New(), zap.NewNop())

	_, _, err := svc.List(context.Background(), models.StudentFilter{EducationLevel: "غير معروف"})
	require.Error(t, err)
}
