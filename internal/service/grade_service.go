package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/almanar-institute/grades-api/internal/grading"
	"github.com/almanar-institute/grades-api/internal/models"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
)

type gradeRepository interface {
	ListByScope(ctx context.Context, scope models.GradeScope) ([]models.StudentGradeRecord, error)
	BulkUpsert(ctx context.Context, records []models.StudentGradeRecord) error
	PriorTotals(ctx context.Context, studentIDs []string, subjectID, academicYearID string) (map[string]models.PeriodTotals, error)
}

type distributionResolver interface {
	Resolve(ctx context.Context, level models.EducationLevel, system models.StudySystem) (models.GradeDistribution, error)
}

// GradeService owns the grading workflow: applying raw inputs, recomputing
// derived totals, driving the review states and committing whole sheets.
type GradeService struct {
	repo          gradeRepository
	distributions distributionResolver
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewGradeService constructs a GradeService instance.
func NewGradeService(repo gradeRepository, distributions distributionResolver, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GradeService{repo: repo, distributions: distributions, validator: validate, logger: logger}
}

// ListByScope returns the persisted grade rows for a scope.
func (s *GradeService) ListByScope(ctx context.Context, scope models.GradeScope) ([]models.StudentGradeRecord, error) {
	if !scope.Period.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown period")
	}
	rows, err := s.repo.ListByScope(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	return rows, nil
}

// SaveBatch commits a first or second period sheet. Every row in the scope
// must be approved or nothing is written; the error reports how many rows
// still block the save.
func (s *GradeService) SaveBatch(ctx context.Context, req models.BatchSaveRequest) (*models.BatchSaveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	if req.Period == models.PeriodThird {
		return nil, appErrors.Clone(appErrors.ErrValidation, "third period uses the dedicated third-period save")
	}
	if !req.Period.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown period")
	}
	if !grading.PeriodAvailable(req.EducationLevel, req.StudySystem, req.Period) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not available for this cohort", req.Period.Label()))
	}

	dist, err := s.distributions.Resolve(ctx, req.EducationLevel, req.StudySystem)
	if err != nil {
		return nil, err
	}

	scope := models.GradeScope{SubjectID: req.SubjectID, AcademicYearID: req.AcademicYearID, Period: req.Period}
	session, err := s.openSession(ctx, scope, dist)
	if err != nil {
		return nil, err
	}

	cfg := dist.Period(req.Period)
	for _, entry := range req.Entries {
		months := []*float64{entry.Month1, entry.Month2, entry.Month3}
		if cfg.MonthsCount < len(months) {
			months = months[:cfg.MonthsCount]
		}
		locked, err := s.prepareEntry(session, entry.StudentID, entry.ReviewState, rawEntry{months: months, exam: entry.PeriodExam})
		if err != nil {
			return nil, err
		}
		if locked {
			continue
		}
		for slot := 1; slot <= len(months); slot++ {
			if err := session.SetMonthly(entry.StudentID, slot, months[slot-1]); err != nil {
				return nil, entryError(entry.StudentID, err)
			}
		}
		if err := session.SetExam(entry.StudentID, entry.PeriodExam); err != nil {
			return nil, entryError(entry.StudentID, err)
		}
		if err := s.driveReviewState(session, entry.StudentID, entry.ReviewState); err != nil {
			return nil, entryError(entry.StudentID, err)
		}
	}

	return s.commit(ctx, session, req.Period)
}

// SaveThirdPeriod commits the third-period sheet. Only the exam is entered;
// the first and second period totals are pulled read-only from the rows
// already persisted for the same subject and year.
func (s *GradeService) SaveThirdPeriod(ctx context.Context, req models.ThirdPeriodSaveRequest) (*models.BatchSaveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid third-period payload")
	}
	if !grading.PeriodAvailable(req.EducationLevel, req.StudySystem, models.PeriodThird) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the third period is not available for this cohort")
	}

	dist, err := s.distributions.Resolve(ctx, req.EducationLevel, req.StudySystem)
	if err != nil {
		return nil, err
	}

	scope := models.GradeScope{SubjectID: req.SubjectID, AcademicYearID: req.AcademicYearID, Period: models.PeriodThird}
	session, err := s.openSession(ctx, scope, dist)
	if err != nil {
		return nil, err
	}

	studentIDs := make([]string, 0, len(req.Entries))
	for _, entry := range req.Entries {
		studentIDs = append(studentIDs, entry.StudentID)
	}
	priors, err := s.repo.PriorTotals(ctx, studentIDs, req.SubjectID, req.AcademicYearID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prior period totals")
	}
	for studentID, totals := range priors {
		session.SetPriorTotals(studentID, totals)
	}

	for _, entry := range req.Entries {
		locked, err := s.prepareEntry(session, entry.StudentID, entry.ReviewState, rawEntry{exam: entry.PeriodExam})
		if err != nil {
			return nil, err
		}
		if locked {
			continue
		}
		if err := session.SetExam(entry.StudentID, entry.PeriodExam); err != nil {
			return nil, entryError(entry.StudentID, err)
		}
		if err := s.driveReviewState(session, entry.StudentID, entry.ReviewState); err != nil {
			return nil, entryError(entry.StudentID, err)
		}
	}

	return s.commit(ctx, session, models.PeriodThird)
}

func (s *GradeService) openSession(ctx context.Context, scope models.GradeScope, dist models.GradeDistribution) (*grading.Session, error) {
	persisted, err := s.repo.ListByScope(ctx, scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load persisted grades")
	}
	session := grading.NewSession(scope, dist)
	session.Load(persisted)
	return session, nil
}

// rawEntry carries the grade inputs of a batch entry for reconciliation
// against the persisted draft. months holds only the configured slots.
type rawEntry struct {
	months []*float64
	exam   *float64
}

func (r rawEntry) differsFrom(record models.StudentGradeRecord) bool {
	persisted := []*float64{record.Month1, record.Month2, record.Month3}
	for i, v := range r.months {
		if !floatPtrEqual(v, persisted[i]) {
			return true
		}
	}
	return !floatPtrEqual(r.exam, record.PeriodExam)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// prepareEntry reconciles an entry with the persisted draft before edits. An
// approved row that should stay approved must carry the persisted values
// unchanged; differing values are rejected rather than dropped. An entry that
// should drop below approved is reverted first.
func (s *GradeService) prepareEntry(session *grading.Session, studentID string, desired models.ReviewState, raw rawEntry) (locked bool, err error) {
	if !desired.Valid() {
		return false, entryError(studentID, appErrors.Clone(appErrors.ErrValidation, "unknown review state"))
	}
	record, ok := session.Record(studentID)
	if !ok || record.ReviewState != models.ReviewApproved {
		return false, nil
	}
	if desired == models.ReviewApproved {
		if raw.differsFrom(record) {
			return false, entryError(studentID, appErrors.Clone(appErrors.ErrLockedRecord, "record is approved; unapprove it before changing grades"))
		}
		return true, nil
	}
	if err := session.Unapprove(studentID); err != nil {
		return false, entryError(studentID, err)
	}
	return false, nil
}

// driveReviewState walks a freshly edited draft from pending toward the state
// the entry asked for, one legal transition at a time.
func (s *GradeService) driveReviewState(session *grading.Session, studentID string, desired models.ReviewState) error {
	switch desired {
	case models.ReviewNone, models.ReviewPending:
		return nil
	case models.ReviewReviewed:
		return session.MarkReviewed(studentID)
	case models.ReviewApproved:
		if err := session.MarkReviewed(studentID); err != nil {
			return err
		}
		return session.MarkApproved(studentID)
	}
	return appErrors.Clone(appErrors.ErrValidation, "unknown review state")
}

func (s *GradeService) commit(ctx context.Context, session *grading.Session, period models.PeriodKey) (*models.BatchSaveResult, error) {
	if blocking := session.BlockingCount(); blocking > 0 {
		return nil, appErrors.Clone(appErrors.ErrIncompleteBatch,
			fmt.Sprintf("%d record(s) are not approved; approve every record before saving", blocking))
	}

	records := session.Records()
	if err := s.repo.BulkUpsert(ctx, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to persist grade batch")
	}

	s.logger.Info("grade batch saved",
		zap.String("period", string(period)),
		zap.Int("records", len(records)))
	return &models.BatchSaveResult{
		SavedCount: len(records),
		Period:     period,
		SavedAt:    time.Now().UTC(),
	}, nil
}

func entryError(studentID string, err error) error {
	appErr := appErrors.FromError(err)
	return appErrors.Clone(appErr, fmt.Sprintf("student %s: %s", studentID, appErr.Message))
}
