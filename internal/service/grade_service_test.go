package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/almanar-institute/grades-api/internal/grading"
	"github.com/almanar-institute/grades-api/internal/models"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
)

func fptr(v float64) *float64 { return &v }

type mockGradeRepo struct {
	persisted map[models.PeriodKey][]models.StudentGradeRecord
	priors    map[string]models.PeriodTotals
	saved     []models.StudentGradeRecord
	saveErr   error
}

func (m *mockGradeRepo) ListByScope(ctx context.Context, scope models.GradeScope) ([]models.StudentGradeRecord, error) {
	return m.persisted[scope.Period], nil
}

func (m *mockGradeRepo) BulkUpsert(ctx context.Context, records []models.StudentGradeRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = records
	return nil
}

func (m *mockGradeRepo) PriorTotals(ctx context.Context, studentIDs []string, subjectID, academicYearID string) (map[string]models.PeriodTotals, error) {
	return m.priors, nil
}

type mockDistResolver struct{}

func (m *mockDistResolver) Resolve(ctx context.Context, level models.EducationLevel, system models.StudySystem) (models.GradeDistribution, error) {
	return grading.ResolveDistribution(level, system), nil
}

func newGradeService(repo *mockGradeRepo) *GradeService {
	return NewGradeService(repo, &mockDistResolver{}, validator.New(), zap.NewNop())
}

func firstPeriodRequest(entries ...models.GradeEntryInput) models.BatchSaveRequest {
	return models.BatchSaveRequest{
		SubjectID:      "sub-1",
		AcademicYearID: "y-1",
		Period:         models.PeriodFirst,
		EducationLevel: models.LevelFirstYear,
		StudySystem:    models.SystemRegular,
		Entries:        entries,
	}
}

func TestGradeServiceSaveBatchComputesAndCommits(t *testing.T) {
	repo := &mockGradeRepo{}
	svc := newGradeService(repo)

	result, err := svc.SaveBatch(context.Background(), firstPeriodRequest(models.GradeEntryInput{
		StudentID:   "s-1",
		Month1:      fptr(8),
		Month2:      fptr(9),
		PeriodExam:  fptr(65),
		ReviewState: models.ReviewApproved,
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SavedCount)

	require.Len(t, repo.saved, 1)
	saved := repo.saved[0]
	assert.Equal(t, 8.5, saved.WorkTotal)
	assert.Equal(t, 73.5, saved.PeriodTotal)
	assert.Equal(t, 73.5, saved.Percentage)
	assert.Equal(t, "جيد", saved.LetterGrade)
	assert.Equal(t, models.ReviewApproved, saved.ReviewState)
}

func TestGradeServiceSaveBatchBlocksOnUnapproved(t *testing.T) {
	repo := &mockGradeRepo{}
	svc := newGradeService(repo)

	_, err := svc.SaveBatch(context.Background(), firstPeriodRequest(
		models.GradeEntryInput{StudentID: "s-1", Month1: fptr(8), PeriodExam: fptr(65), ReviewState: models.ReviewApproved},
		models.GradeEntryInput{StudentID: "s-2", Month1: fptr(7), PeriodExam: fptr(50), ReviewState: models.ReviewReviewed},
	))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrIncompleteBatch))
	assert.Contains(t, err.Error(), "1 record(s)")
	assert.Nil(t, repo.saved)
}

func TestGradeServiceSaveBatchRejectsThirdPeriod(t *testing.T) {
	repo := &mockGradeRepo{}
	svc := newGradeService(repo)

	req := firstPeriodRequest(models.GradeEntryInput{StudentID: "s-1", ReviewState: models.ReviewApproved})
	req.Period = models.PeriodThird
	_, err := svc.SaveBatch(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestGradeServiceSaveBatchRejectsUnavailablePeriod(t *testing.T) {
	repo := &mockGradeRepo{}
	svc := newGradeService(repo)

	req := firstPeriodRequest(models.GradeEntryInput{StudentID: "s-1", PeriodExam: fptr(50), ReviewState: models.ReviewApproved})
	req.StudySystem = models.SystemDistance
	_, err := svc.SaveBatch(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestGradeServiceSaveBatchRejectsEditsToApprovedRows(t *testing.T) {
	repo := &mockGradeRepo{persisted: map[models.PeriodKey][]models.StudentGradeRecord{
		models.PeriodFirst: {{
			ID: "g-1", StudentID: "s-1", SubjectID: "sub-1", AcademicYearID: "y-1",
			Period: models.PeriodFirst, Month1: fptr(10), PeriodExam: fptr(70),
			WorkTotal: 10, PeriodTotal: 80, Percentage: 80, LetterGrade: "جيد جداً", GradeColor: "blue",
			ReviewState: models.ReviewApproved,
		}},
	}}
	svc := newGradeService(repo)

	// changed values on an approved row are rejected, not silently dropped
	_, err := svc.SaveBatch(context.Background(), firstPeriodRequest(models.GradeEntryInput{
		StudentID: "s-1", Month1: fptr(1), PeriodExam: fptr(10), ReviewState: models.ReviewApproved,
	}))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrLockedRecord))
	assert.Contains(t, err.Error(), "s-1")
	assert.Empty(t, repo.saved)
}

func TestGradeServiceSaveBatchResavesUnchangedApprovedRows(t *testing.T) {
	repo := &mockGradeRepo{persisted: map[models.PeriodKey][]models.StudentGradeRecord{
		models.PeriodFirst: {{
			ID: "g-1", StudentID: "s-1", SubjectID: "sub-1", AcademicYearID: "y-1",
			Period: models.PeriodFirst, Month1: fptr(10), PeriodExam: fptr(70),
			WorkTotal: 10, PeriodTotal: 80, Percentage: 80, LetterGrade: "جيد جداً", GradeColor: "blue",
			ReviewState: models.ReviewApproved,
		}},
	}}
	svc := newGradeService(repo)

	// the same values re-submitted leave the approved row untouched
	_, err := svc.SaveBatch(context.Background(), firstPeriodRequest(models.GradeEntryInput{
		StudentID: "s-1", Month1: fptr(10), PeriodExam: fptr(70), ReviewState: models.ReviewApproved,
	}))
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, 80.0, repo.saved[0].PeriodTotal)
	assert.Equal(t, "جيد جداً", repo.saved[0].LetterGrade)
}

func TestGradeServiceSaveBatchUnapprovesWhenEntryAsks(t *testing.T) {
	repo := &mockGradeRepo{persisted: map[models.PeriodKey][]models.StudentGradeRecord{
		models.PeriodFirst: {{
			ID: "g-1", StudentID: "s-1", SubjectID: "sub-1", AcademicYearID: "y-1",
			Period: models.PeriodFirst, Month1: fptr(10), PeriodExam: fptr(70),
			ReviewState: models.ReviewApproved,
		}},
	}}
	svc := newGradeService(repo)

	// dropping below approved unlocks the row; leaving it reviewed then blocks
	_, err := svc.SaveBatch(context.Background(), firstPeriodRequest(models.GradeEntryInput{
		StudentID: "s-1", Month1: fptr(9), PeriodExam: fptr(60), ReviewState: models.ReviewReviewed,
	}))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrIncompleteBatch))
}

func TestGradeServiceSaveBatchTransportFailure(t *testing.T) {
	repo := &mockGradeRepo{saveErr: errors.New("connection reset")}
	svc := newGradeService(repo)

	_, err := svc.SaveBatch(context.Background(), firstPeriodRequest(models.GradeEntryInput{
		StudentID: "s-1", Month1: fptr(8), PeriodExam: fptr(65), ReviewState: models.ReviewApproved,
	}))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrTransport))
}

func TestGradeServiceSaveThirdPeriodCascades(t *testing.T) {
	repo := &mockGradeRepo{priors: map[string]models.PeriodTotals{
		"s-1": {First: fptr(73.5), Second: fptr(80)},
	}}
	svc := newGradeService(repo)

	result, err := svc.SaveThirdPeriod(context.Background(), models.ThirdPeriodSaveRequest{
		SubjectID:      "sub-1",
		AcademicYearID: "y-1",
		EducationLevel: models.LevelFirstYear,
		StudySystem:    models.SystemRegular,
		Entries: []models.ThirdPeriodEntryInput{
			{StudentID: "s-1", PeriodExam: fptr(70), ReviewState: models.ReviewApproved},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SavedCount)

	require.Len(t, repo.saved, 1)
	saved := repo.saved[0]
	assert.Equal(t, models.PeriodThird, saved.Period)
	assert.Equal(t, 223.5, saved.PeriodTotal)
}

func TestGradeServiceSaveThirdPeriodUnavailableForThirdYearRegular(t *testing.T) {
	repo := &mockGradeRepo{}
	svc := newGradeService(repo)

	_, err := svc.SaveThirdPeriod(context.Background(), models.ThirdPeriodSaveRequest{
		SubjectID:      "sub-1",
		AcademicYearID: "y-1",
		EducationLevel: models.LevelThirdYear,
		StudySystem:    models.SystemRegular,
		Entries: []models.ThirdPeriodEntryInput{
			{StudentID: "s-1", PeriodExam: fptr(70), ReviewState: models.ReviewApproved},
		},
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
