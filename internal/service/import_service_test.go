package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/almanar-institute/grades-api/internal/models"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func importRequest() models.ImportRequest {
	return models.ImportRequest{
		SubjectID:      "sub-1",
		AcademicYearID: "y-1",
		Period:         models.PeriodFirst,
		EducationLevel: models.LevelFirstYear,
		StudySystem:    models.SystemRegular,
	}
}

func newImportFixture(students []models.Student) *ImportService {
	return NewImportService(
		&mockStudentRepo{students: students},
		&mockDistResolver{},
		validator.New(),
		zap.NewNop(),
		ImportConfig{MaxFileSizeBytes: 5 << 20},
	)
}

func TestImportServiceParsesMatchingRows(t *testing.T) {
	svc := newImportFixture(regularCohort())
	file := buildWorkbook(t, [][]any{
		{"الاسم", "الشهر الأول", "الشهر الثاني", "الشهر الثالث", "الامتحان"},
		{"أحمد خالد", 8, 9, "", 65},
		{"سارة محمود", 7.5, "", 6, 50},
	})

	result, err := svc.ParseSheet(context.Background(), importRequest(), file)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Matched)
	require.Len(t, result.Entries, 2)

	first := result.Entries[0]
	assert.Equal(t, "s-1", first.StudentID)
	require.NotNil(t, first.Month1)
	assert.Equal(t, 8.0, *first.Month1)
	require.NotNil(t, first.PeriodExam)
	assert.Equal(t, 65.0, *first.PeriodExam)
	assert.Equal(t, models.ReviewPending, first.ReviewState)
}

func TestImportServiceFlagsUnknownAndInvalidRows(t *testing.T) {
	svc := newImportFixture(regularCohort())
	file := buildWorkbook(t, [][]any{
		{"الاسم", "الشهر الأول", "الشهر الثاني", "الشهر الثالث", "الامتحان"},
		{"طالب غير مسجل", 8, 9, "", 65},
		{"أحمد خالد", "ثمانية", 9, "", 65},
		{"سارة محمود", 12, "", "", 50},
	})

	result, err := svc.ParseSheet(context.Background(), importRequest(), file)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Entries)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0].Message, "no student")
	assert.Contains(t, result.Errors[1].Message, "is not a number")
	assert.Contains(t, result.Errors[2].Message, "cannot exceed")
}

func TestImportServiceWarnsOnMissingExamAndAbsentStudents(t *testing.T) {
	svc := newImportFixture(regularCohort())
	file := buildWorkbook(t, [][]any{
		{"الاسم", "الشهر الأول", "الشهر الثاني", "الشهر الثالث", "الامتحان"},
		{"أحمد خالد", 8, 9, "", ""},
	})

	result, err := svc.ParseSheet(context.Background(), importRequest(), file)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0].Message, "exam missing")
	assert.Contains(t, result.Warnings[1].Message, "not present")
}

func TestImportServiceRejectsOversizedFile(t *testing.T) {
	svc := NewImportService(&mockStudentRepo{}, &mockDistResolver{}, validator.New(), zap.NewNop(), ImportConfig{MaxFileSizeBytes: 16})

	_, err := svc.ParseSheet(context.Background(), importRequest(), make([]byte, 64))
	require.Error(t, err)
}

func TestImportServiceRejectsDuplicateRows(t *testing.T) {
	svc := newImportFixture(regularCohort())
	file := buildWorkbook(t, [][]any{
		{"الاسم", "الشهر الأول", "الشهر الثاني", "الشهر الثالث", "الامتحان"},
		{"أحمد خالد", 8, 9, "", 65},
		{"أحمد خالد", 5, 6, "", 40},
	})

	result, err := svc.ParseSheet(context.Background(), importRequest(), file)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "duplicate")
	assert.Len(t, result.Entries, 1)
}
