package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/almanar-institute/grades-api/internal/grading"
	"github.com/almanar-institute/grades-api/internal/models"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	ListByCohort(ctx context.Context, academicYearID string, level models.EducationLevel, system models.StudySystem) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

type studentGradeReader interface {
	ListByScope(ctx context.Context, scope models.GradeScope) ([]models.StudentGradeRecord, error)
}

// StudentService manages the student directory and the filtered grading
// roster.
type StudentService struct {
	repo      studentRepository
	grades    studentGradeReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentRepository, grades studentGradeReader, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, grades: grades, validator: validate, logger: logger}
}

// List returns students matching the directory filter with pagination.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if filter.EducationLevel != "" && !filter.EducationLevel.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown education level")
	}
	if filter.StudySystem != "" && !filter.StudySystem.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown study system")
	}
	filter.Search = strings.TrimSpace(filter.Search)

	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, student *models.Student) (*models.Student, error) {
	if student.FullName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "full name is required")
	}
	if !student.EducationLevel.Valid() || !student.StudySystem.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown education level or study system")
	}
	student.Active = true
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update edits an existing student record.
func (s *StudentService) Update(ctx context.Context, student *models.Student) (*models.Student, error) {
	if !student.EducationLevel.Valid() || !student.StudySystem.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown education level or study system")
	}
	if _, err := s.Get(ctx, student.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// RosterRequest scopes the grading roster: one cohort crossed with one
// subject, year and period.
type RosterRequest struct {
	AcademicYearID string                `validate:"required"`
	EducationLevel models.EducationLevel `validate:"required"`
	StudySystem    models.StudySystem    `validate:"required"`
	SubjectID      string                `validate:"required"`
	Period         models.PeriodKey
}

// Roster returns the cohort's active students merged with the grade rows
// already saved for the scope. For cohorts the period does not apply to, the
// roster is names only and nothing is editable.
func (s *StudentService) Roster(ctx context.Context, req RosterRequest) ([]models.StudentWithGrade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster request")
	}
	if !req.EducationLevel.Valid() || !req.StudySystem.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown education level or study system")
	}
	if req.Period != "" && !req.Period.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown period")
	}

	students, err := s.repo.ListByCohort(ctx, req.AcademicYearID, req.EducationLevel, req.StudySystem)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort students")
	}

	editable := req.Period != "" && grading.PeriodAvailable(req.EducationLevel, req.StudySystem, req.Period)

	var byStudent map[string]models.StudentGradeRecord
	if editable {
		scope := models.GradeScope{SubjectID: req.SubjectID, AcademicYearID: req.AcademicYearID, Period: req.Period}
		rows, err := s.grades.ListByScope(ctx, scope)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load saved grades")
		}
		byStudent = make(map[string]models.StudentGradeRecord, len(rows))
		for _, row := range rows {
			byStudent[row.StudentID] = row
		}
	}

	roster := make([]models.StudentWithGrade, 0, len(students))
	for _, student := range students {
		entry := models.StudentWithGrade{Student: student, Editable: editable}
		if row, ok := byStudent[student.ID]; ok {
			grade := row
			entry.Grade = &grade
		}
		roster = append(roster, entry)
	}
	return roster, nil
}
