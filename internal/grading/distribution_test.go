package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almanar-institute/grades-api/internal/models"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
)

func TestResolveDistributionBaseline(t *testing.T) {
	d := ResolveDistribution(models.LevelFirstYear, models.SystemRegular)
	require.Equal(t, models.LevelFirstYear, d.EducationLevel)

	first := d.Period(models.PeriodFirst)
	assert.Equal(t, 3, first.MonthsCount)
	assert.Equal(t, 10.0, first.MonthlyGrade)
	assert.Equal(t, 70.0, first.PeriodExam)
	assert.Equal(t, 100.0, first.ExpectedTotal())

	third := d.Period(models.PeriodThird)
	assert.Equal(t, 0, third.MonthsCount)
}

func TestResolveDistributionNeverFails(t *testing.T) {
	// Unknown cohort pairs fall back to the institute baseline.
	d := ResolveDistribution("سنة غير معروفة", "نظام غير معروف")
	require.NotEmpty(t, d.Periods)
	assert.Equal(t, 100.0, d.FinalCalculation.TotalGrade)
}

func TestResolveDistributionDistanceExamOnly(t *testing.T) {
	d := ResolveDistribution(models.LevelSecondYear, models.SystemDistance)
	assert.Equal(t, 0, d.Period(models.PeriodFirst).MonthsCount)
	assert.Equal(t, 100.0, d.Period(models.PeriodThird).PeriodExam)
	assert.Equal(t, 1.0, d.FinalCalculation.ThirdPeriodWeight)
}

func TestBuiltinsSatisfyInvariants(t *testing.T) {
	for key, d := range builtins {
		require.NoError(t, ValidateDistribution(d), "builtin %v/%v", key.level, key.system)
	}
	require.NoError(t, ValidateDistribution(baseline(models.LevelFirstYear, models.SystemRegular)))
}

func TestValidateDistributionEnumeratesViolations(t *testing.T) {
	d := models.GradeDistribution{
		Periods: map[models.PeriodKey]models.PeriodConfig{
			models.PeriodFirst:  {MonthsCount: 5, MonthlyGrade: -1, PeriodExam: 70},
			models.PeriodSecond: {MonthsCount: 3, MonthlyGrade: 10, PeriodExam: 70},
			models.PeriodThird:  {MonthsCount: 2, MonthlyGrade: 10, PeriodExam: 100},
		},
		FinalCalculation: models.FinalCalculation{FirstAndSecondWeight: 0.5, ThirdPeriodWeight: 0.7, TotalGrade: 100},
	}
	err := ValidateDistribution(d)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Contains(t, err.Error(), "periods.firstPeriod.monthsCount")
	assert.Contains(t, err.Error(), "periods.firstPeriod.monthlyGrade")
	assert.Contains(t, err.Error(), "periods.thirdPeriod.monthsCount: must be 0")
	assert.Contains(t, err.Error(), "weights must sum to 1.0")
}

func TestValidateDistributionWeightTolerance(t *testing.T) {
	d := baseline(models.LevelFirstYear, models.SystemRegular)
	d.FinalCalculation.FirstAndSecondWeight = 0.302
	d.FinalCalculation.ThirdPeriodWeight = 0.7
	assert.Error(t, ValidateDistribution(d))

	// Sums within the epsilon pass.
	d.FinalCalculation.FirstAndSecondWeight = 0.3004
	assert.NoError(t, ValidateDistribution(d))

	d.FinalCalculation.FirstAndSecondWeight = 0.3
	assert.NoError(t, ValidateDistribution(d))
}

func TestValidateDistributionExpectedTotalBound(t *testing.T) {
	d := baseline(models.LevelFirstYear, models.SystemRegular)
	periods := d.Periods
	periods[models.PeriodFirst] = models.PeriodConfig{MonthsCount: 3, MonthlyGrade: 20, PeriodExam: 70}
	err := ValidateDistribution(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds totalGrade")
}
