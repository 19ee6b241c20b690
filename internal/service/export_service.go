package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/almanar-institute/grades-api/internal/models"
	"github.com/almanar-institute/grades-api/pkg/export"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type rosterProvider interface {
	Roster(ctx context.Context, req RosterRequest) ([]models.StudentWithGrade, error)
}

type exportSubjectReader interface {
	FindSubjectByID(ctx context.Context, id string) (*models.Subject, error)
}

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportRequest scopes a grade-sheet export.
type ExportRequest struct {
	SubjectID      string                `validate:"required"`
	AcademicYearID string                `validate:"required"`
	Period         models.PeriodKey      `validate:"required"`
	EducationLevel models.EducationLevel `validate:"required"`
	StudySystem    models.StudySystem    `validate:"required"`
	Format         ExportFormat          `validate:"required"`
}

// ExportFile is a rendered grade sheet ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders grade sheets for download.
type ExportService struct {
	roster    rosterProvider
	subjects  exportSubjectReader
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(roster rosterProvider, subjects exportSubjectReader, csv csvRenderer, pdf pdfRenderer, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{roster: roster, subjects: subjects, csv: csv, pdf: pdf, validator: validate, logger: logger}
}

// Generate renders the grade sheet for a scope in the requested format.
func (s *ExportService) Generate(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	if req.Format != FormatCSV && req.Format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", req.Format))
	}
	if !req.Period.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown period")
	}

	subject, err := s.subjects.FindSubjectByID(ctx, req.SubjectID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	roster, err := s.roster.Roster(ctx, RosterRequest{
		AcademicYearID: req.AcademicYearID,
		EducationLevel: req.EducationLevel,
		StudySystem:    req.StudySystem,
		SubjectID:      req.SubjectID,
		Period:         req.Period,
	})
	if err != nil {
		return nil, err
	}

	dataset := buildGradeSheetDataset(roster)
	title := fmt.Sprintf("%s - %s - %s %s", subject.Name, req.Period.Label(), req.EducationLevel, req.StudySystem)

	var payload []byte
	var contentType string
	switch req.Format {
	case FormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
	case FormatPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("grades_%s_%s_%s.%s",
		sanitizeFilename(subject.Name), req.Period, time.Now().UTC().Format("20060102_150405"), req.Format)

	s.logger.Info("grade sheet exported",
		zap.String("subject", subject.Name),
		zap.String("format", string(req.Format)),
		zap.Int("rows", len(dataset.Rows)))
	return &ExportFile{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func buildGradeSheetDataset(roster []models.StudentWithGrade) export.Dataset {
	headers := []string{"الطالب", "الشهر الأول", "الشهر الثاني", "الشهر الثالث", "أعمال الفترة", "الامتحان", "المجموع", "النسبة", "التقدير", "الحالة"}
	rows := make([]map[string]string, 0, len(roster))
	for _, item := range roster {
		row := map[string]string{"الطالب": item.Student.FullName}
		if item.Grade != nil {
			row["الشهر الأول"] = formatGrade(item.Grade.Month1)
			row["الشهر الثاني"] = formatGrade(item.Grade.Month2)
			row["الشهر الثالث"] = formatGrade(item.Grade.Month3)
			row["أعمال الفترة"] = fmt.Sprintf("%.2f", item.Grade.WorkTotal)
			row["الامتحان"] = formatGrade(item.Grade.PeriodExam)
			row["المجموع"] = fmt.Sprintf("%.2f", item.Grade.PeriodTotal)
			row["النسبة"] = fmt.Sprintf("%.2f", item.Grade.Percentage)
			row["التقدير"] = item.Grade.LetterGrade
			row["الحالة"] = string(item.Grade.ReviewState)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func formatGrade(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
