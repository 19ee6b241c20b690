package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/almanar-institute/grades-api/internal/grading"
	"github.com/almanar-institute/grades-api/internal/models"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
)

type importStudentReader interface {
	ListByCohort(ctx context.Context, academicYearID string, level models.EducationLevel, system models.StudySystem) ([]models.Student, error)
}

// ImportConfig bounds uploaded spreadsheets.
type ImportConfig struct {
	MaxFileSizeBytes int64
	SheetName        string
}

// ImportService parses uploaded Excel grade sheets into draft entries. The
// expected layout is one row per student: full name in the first column,
// monthly grades in the following columns and the period exam last.
type ImportService struct {
	students      importStudentReader
	distributions distributionResolver
	validator     *validator.Validate
	logger        *zap.Logger
	config        ImportConfig
}

// NewImportService constructs an ImportService instance.
func NewImportService(students importStudentReader, distributions distributionResolver, validate *validator.Validate, logger *zap.Logger, config ImportConfig) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ImportService{students: students, distributions: distributions, validator: validate, logger: logger, config: config}
}

// ParseSheet reads an uploaded workbook and matches its rows to the cohort's
// students. Rows that fail to match or validate are collected as errors, the
// rest come back as pending entries ready for the grading table.
func (s *ImportService) ParseSheet(ctx context.Context, req models.ImportRequest, file []byte) (*models.ImportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import request")
	}
	if !req.Period.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown period")
	}
	if !grading.PeriodAvailable(req.EducationLevel, req.StudySystem, req.Period) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not available for this cohort", req.Period.Label()))
	}
	if s.config.MaxFileSizeBytes > 0 && int64(len(file)) > s.config.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds the %d byte limit", s.config.MaxFileSizeBytes))
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(file))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "file is not a readable workbook")
	}
	defer workbook.Close()

	sheet := s.config.SheetName
	if sheet == "" {
		sheet = workbook.GetSheetName(0)
	}
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("sheet %q not found", sheet))
	}

	dist, err := s.distributions.Resolve(ctx, req.EducationLevel, req.StudySystem)
	if err != nil {
		return nil, err
	}
	cfg := dist.Period(req.Period)

	students, err := s.students.ListByCohort(ctx, req.AcademicYearID, req.EducationLevel, req.StudySystem)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort students")
	}
	byName := make(map[string]models.Student, len(students))
	for _, student := range students {
		byName[strings.TrimSpace(student.FullName)] = student
	}

	result := &models.ImportResult{
		Entries:  []models.GradeEntryInput{},
		Errors:   []models.ImportIssue{},
		Warnings: []models.ImportIssue{},
	}
	seen := make(map[string]bool, len(students))

	for i, row := range rows {
		rowNum := i + 1
		if i == 0 || len(row) == 0 {
			// header row or trailing blank
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		student, ok := byName[name]
		if !ok {
			result.Errors = append(result.Errors, models.ImportIssue{Row: rowNum, Student: name, Message: "no student with this name in the cohort"})
			continue
		}
		if seen[student.ID] {
			result.Errors = append(result.Errors, models.ImportIssue{Row: rowNum, Student: name, Message: "duplicate row for student"})
			continue
		}
		seen[student.ID] = true

		entry, issues := s.parseRow(rowNum, name, row, cfg)
		if len(issues) > 0 {
			result.Errors = append(result.Errors, issues...)
			continue
		}
		entry.StudentID = student.ID
		if entry.PeriodExam == nil {
			result.Warnings = append(result.Warnings, models.ImportIssue{Row: rowNum, Student: name, Message: "period exam missing; record will stay in progress"})
		}
		result.Entries = append(result.Entries, entry)
	}

	for _, student := range students {
		if !seen[student.ID] {
			result.Warnings = append(result.Warnings, models.ImportIssue{Student: student.FullName, Message: "student not present in the sheet"})
		}
	}

	result.Matched = len(result.Entries)
	result.Success = len(result.Errors) == 0
	s.logger.Info("grade sheet parsed",
		zap.Int("matched", result.Matched),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

func (s *ImportService) parseRow(rowNum int, name string, row []string, cfg models.PeriodConfig) (models.GradeEntryInput, []models.ImportIssue) {
	entry := models.GradeEntryInput{ReviewState: models.ReviewPending}
	var issues []models.ImportIssue

	months := make([]*float64, 3)
	for slot := 1; slot <= cfg.MonthsCount && slot <= 3; slot++ {
		value, err := parseCell(row, slot)
		if err != nil {
			issues = append(issues, models.ImportIssue{Row: rowNum, Student: name, Message: fmt.Sprintf("month %d: %v", slot, err)})
			continue
		}
		if value != nil {
			if res := grading.ValidateGrade(*value, cfg.MonthlyGrade, grading.KindMonthly); !res.IsValid {
				issues = append(issues, models.ImportIssue{Row: rowNum, Student: name, Message: fmt.Sprintf("month %d: %s", slot, res.Error)})
				continue
			}
		}
		months[slot-1] = value
	}
	entry.Month1, entry.Month2, entry.Month3 = months[0], months[1], months[2]

	exam, err := parseCell(row, cfg.MonthsCount+1)
	if err != nil {
		issues = append(issues, models.ImportIssue{Row: rowNum, Student: name, Message: fmt.Sprintf("exam: %v", err)})
	} else if exam != nil {
		if res := grading.ValidateGrade(*exam, cfg.PeriodExam, grading.KindExam); !res.IsValid {
			issues = append(issues, models.ImportIssue{Row: rowNum, Student: name, Message: fmt.Sprintf("exam: %s", res.Error)})
		} else {
			entry.PeriodExam = exam
		}
	}
	return entry, issues
}

func parseCell(row []string, col int) (*float64, error) {
	if col >= len(row) {
		return nil, nil
	}
	raw := strings.TrimSpace(row[col])
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	return &value, nil
}
