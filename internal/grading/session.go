package grading

import (
	"fmt"

	"github.com/almanar-institute/grades-api/internal/models"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
)

// Session owns the in-memory grade drafts for one (subject, academic year,
// period) scope. It replaces ambient table state with an explicit mutation
// API: every raw edit is validated first, recomputes the derived totals
// synchronously, and drives the review workflow. A failed mutation leaves the
// prior draft untouched.
type Session struct {
	scope   models.GradeScope
	dist    models.GradeDistribution
	records map[string]*models.StudentGradeRecord
	priors  map[string]models.PeriodTotals
}

// NewSession opens a session for a scope under a resolved distribution.
func NewSession(scope models.GradeScope, dist models.GradeDistribution) *Session {
	return &Session{
		scope:   scope,
		dist:    dist,
		records: make(map[string]*models.StudentGradeRecord),
		priors:  make(map[string]models.PeriodTotals),
	}
}

// Load seeds the session with already persisted rows for the scope.
func (s *Session) Load(records []models.StudentGradeRecord) {
	for i := range records {
		r := records[i]
		s.records[r.StudentID] = &r
	}
}

// SetPriorTotals attaches the read-only first/second period totals used by
// third-period cascades.
func (s *Session) SetPriorTotals(studentID string, totals models.PeriodTotals) {
	s.priors[studentID] = totals
}

// Record returns a copy of the draft for a student.
func (s *Session) Record(studentID string) (models.StudentGradeRecord, bool) {
	r, ok := s.records[studentID]
	if !ok {
		return models.StudentGradeRecord{}, false
	}
	return *r, true
}

// Records returns copies of every draft in the session.
func (s *Session) Records() []models.StudentGradeRecord {
	out := make([]models.StudentGradeRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r)
	}
	return out
}

// SetMonthly records a monthly grade for the given slot (1-based). A nil
// value clears the slot. The mutation is rejected while the record is
// approved and whenever validation fails.
func (s *Session) SetMonthly(studentID string, slot int, value *float64) error {
	cfg := s.dist.Period(s.scope.Period)
	if slot < 1 || slot > cfg.MonthsCount {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("month slot %d is not configured for this period", slot))
	}
	if value != nil {
		if result := ValidateGrade(*value, cfg.MonthlyGrade, KindMonthly); !result.IsValid {
			return appErrors.Clone(appErrors.ErrValidation, result.Error)
		}
	}
	record, err := s.editable(studentID)
	if err != nil {
		return err
	}
	switch slot {
	case 1:
		record.Month1 = value
	case 2:
		record.Month2 = value
	case 3:
		record.Month3 = value
	}
	s.afterEdit(record)
	return nil
}

// SetExam records the period exam score. A nil value clears it, returning the
// record to the in-progress state.
func (s *Session) SetExam(studentID string, value *float64) error {
	cfg := s.dist.Period(s.scope.Period)
	if value != nil {
		if result := ValidateGrade(*value, cfg.PeriodExam, KindExam); !result.IsValid {
			return appErrors.Clone(appErrors.ErrValidation, result.Error)
		}
	}
	record, err := s.editable(studentID)
	if err != nil {
		return err
	}
	record.PeriodExam = value
	s.afterEdit(record)
	return nil
}

// MarkReviewed advances a pending draft to reviewed.
func (s *Session) MarkReviewed(studentID string) error {
	record, ok := s.records[studentID]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "no grade draft for student")
	}
	next, err := MarkReviewed(record.ReviewState)
	if err != nil {
		return err
	}
	record.ReviewState = next
	return nil
}

// MarkApproved advances a reviewed draft to approved. Incomplete records
// (missing exam) cannot be approved; their totals are not final.
func (s *Session) MarkApproved(studentID string) error {
	record, ok := s.records[studentID]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "no grade draft for student")
	}
	if !record.Complete() {
		return appErrors.Clone(appErrors.ErrValidation, "period exam missing; record is still in progress")
	}
	next, err := MarkApproved(record.ReviewState)
	if err != nil {
		return err
	}
	record.ReviewState = next
	return nil
}

// Unapprove reverts an approved draft to reviewed so it can be edited again.
func (s *Session) Unapprove(studentID string) error {
	record, ok := s.records[studentID]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "no grade draft for student")
	}
	next, err := Unapprove(record.ReviewState)
	if err != nil {
		return err
	}
	record.ReviewState = next
	return nil
}

// ApprovedRecords returns copies of every approved draft.
func (s *Session) ApprovedRecords() []models.StudentGradeRecord {
	out := make([]models.StudentGradeRecord, 0, len(s.records))
	for _, r := range s.records {
		if r.ReviewState == models.ReviewApproved {
			out = append(out, *r)
		}
	}
	return out
}

// BlockingCount reports how many drafts are not yet approved and would block
// an all-or-nothing batch save.
func (s *Session) BlockingCount() int {
	count := 0
	for _, r := range s.records {
		if r.ReviewState != models.ReviewApproved {
			count++
		}
	}
	return count
}

func (s *Session) editable(studentID string) (*models.StudentGradeRecord, error) {
	record, ok := s.records[studentID]
	if !ok {
		record = &models.StudentGradeRecord{
			StudentID:      studentID,
			SubjectID:      s.scope.SubjectID,
			AcademicYearID: s.scope.AcademicYearID,
			Period:         s.scope.Period,
			ReviewState:    models.ReviewNone,
		}
		s.records[studentID] = record
	}
	if !CanEdit(record.ReviewState) {
		return nil, appErrors.Clone(appErrors.ErrLockedRecord, "record is approved; unapprove before editing")
	}
	return record, nil
}

func (s *Session) afterEdit(record *models.StudentGradeRecord) {
	prior := s.priors[record.StudentID]
	totals := ComputeTotals(s.scope.Period, PeriodInputs{
		Month1:            record.Month1,
		Month2:            record.Month2,
		Month3:            record.Month3,
		PeriodExam:        record.PeriodExam,
		FirstPeriodTotal:  prior.First,
		SecondPeriodTotal: prior.Second,
	}, s.dist)
	record.WorkTotal = totals.WorkTotal
	record.PeriodTotal = totals.PeriodTotal
	record.Percentage = totals.Percentage
	record.LetterGrade = totals.LetterGrade
	record.GradeColor = totals.GradeColor
	record.ReviewState = models.ReviewPending
}
