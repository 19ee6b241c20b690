// Package grading implements the institute's grade-distribution engine:
// distribution resolution, input validation, totals aggregation with the
// third-period cascade, letter-band classification, period availability and
// the review/approval workflow.
package grading

import (
	"fmt"
	"math"
	"strings"

	"github.com/almanar-institute/grades-api/internal/models"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
)

const weightEpsilon = 0.001

// baseline is the institute default used whenever no built-in or persisted
// override matches a (level, system) pair.
func baseline(level models.EducationLevel, system models.StudySystem) models.GradeDistribution {
	return models.GradeDistribution{
		EducationLevel: level,
		StudySystem:    system,
		Periods: map[models.PeriodKey]models.PeriodConfig{
			models.PeriodFirst:  {MonthsCount: 3, MonthlyGrade: 10, PeriodExam: 70},
			models.PeriodSecond: {MonthsCount: 3, MonthlyGrade: 10, PeriodExam: 70},
			models.PeriodThird:  {MonthsCount: 0, MonthlyGrade: 0, PeriodExam: 100},
		},
		FinalCalculation: models.FinalCalculation{
			FirstAndSecondWeight: 0.3,
			ThirdPeriodWeight:    0.7,
			TotalGrade:           100,
		},
	}
}

type schemeKey struct {
	level  models.EducationLevel
	system models.StudySystem
}

// builtins covers the cohorts with grading schemes that differ from the
// baseline. Distance cohorts sit the third-period exam only.
var builtins = map[schemeKey]models.GradeDistribution{
	{models.LevelFirstYear, models.SystemDistance}: {
		EducationLevel: models.LevelFirstYear,
		StudySystem:    models.SystemDistance,
		Periods: map[models.PeriodKey]models.PeriodConfig{
			models.PeriodFirst:  {},
			models.PeriodSecond: {},
			models.PeriodThird:  {MonthsCount: 0, MonthlyGrade: 0, PeriodExam: 100},
		},
		FinalCalculation: models.FinalCalculation{FirstAndSecondWeight: 0, ThirdPeriodWeight: 1, TotalGrade: 100},
	},
	{models.LevelSecondYear, models.SystemDistance}: {
		EducationLevel: models.LevelSecondYear,
		StudySystem:    models.SystemDistance,
		Periods: map[models.PeriodKey]models.PeriodConfig{
			models.PeriodFirst:  {},
			models.PeriodSecond: {},
			models.PeriodThird:  {MonthsCount: 0, MonthlyGrade: 0, PeriodExam: 100},
		},
		FinalCalculation: models.FinalCalculation{FirstAndSecondWeight: 0, ThirdPeriodWeight: 1, TotalGrade: 100},
	},
	{models.LevelThirdYear, models.SystemRegular}: {
		EducationLevel: models.LevelThirdYear,
		StudySystem:    models.SystemRegular,
		Periods: map[models.PeriodKey]models.PeriodConfig{
			models.PeriodFirst:  {MonthsCount: 3, MonthlyGrade: 10, PeriodExam: 70},
			models.PeriodSecond: {MonthsCount: 3, MonthlyGrade: 10, PeriodExam: 70},
			models.PeriodThird:  {},
		},
		FinalCalculation: models.FinalCalculation{FirstAndSecondWeight: 1, ThirdPeriodWeight: 0, TotalGrade: 100},
	},
}

// ResolveDistribution returns the grading scheme for a cohort. The lookup
// never fails: cohorts without a dedicated built-in scheme fall back to the
// institute baseline.
func ResolveDistribution(level models.EducationLevel, system models.StudySystem) models.GradeDistribution {
	if d, ok := builtins[schemeKey{level, system}]; ok {
		return d
	}
	return baseline(level, system)
}

// ValidateDistribution checks a distribution override against the scheme
// invariants. The returned error enumerates every violated field so callers
// can surface the complete list at once.
func ValidateDistribution(d models.GradeDistribution) error {
	var violations []string

	for _, key := range []models.PeriodKey{models.PeriodFirst, models.PeriodSecond, models.PeriodThird} {
		p, ok := d.Periods[key]
		if !ok {
			violations = append(violations, fmt.Sprintf("periods.%s: missing", key))
			continue
		}
		if p.MonthsCount < 0 || p.MonthsCount > 3 {
			violations = append(violations, fmt.Sprintf("periods.%s.monthsCount: must be between 0 and 3", key))
		}
		if p.MonthlyGrade < 0 {
			violations = append(violations, fmt.Sprintf("periods.%s.monthlyGrade: cannot be negative", key))
		}
		if p.PeriodExam < 0 {
			violations = append(violations, fmt.Sprintf("periods.%s.periodExam: cannot be negative", key))
		}
		if d.FinalCalculation.TotalGrade > 0 && p.ExpectedTotal() > d.FinalCalculation.TotalGrade {
			violations = append(violations, fmt.Sprintf("periods.%s: expected total %.2f exceeds totalGrade %.2f", key, p.ExpectedTotal(), d.FinalCalculation.TotalGrade))
		}
	}

	// Third period is exam-only; its monthly inputs cascade from the
	// earlier periods instead.
	if third, ok := d.Periods[models.PeriodThird]; ok && third.MonthsCount != 0 {
		violations = append(violations, "periods.thirdPeriod.monthsCount: must be 0")
	}

	fc := d.FinalCalculation
	if fc.TotalGrade <= 0 {
		violations = append(violations, "finalCalculation.totalGrade: must be positive")
	}
	if fc.FirstAndSecondWeight < 0 || fc.FirstAndSecondWeight > 1 {
		violations = append(violations, "finalCalculation.firstAndSecondWeight: must be within [0, 1]")
	}
	if fc.ThirdPeriodWeight < 0 || fc.ThirdPeriodWeight > 1 {
		violations = append(violations, "finalCalculation.thirdPeriodWeight: must be within [0, 1]")
	}
	if math.Abs(fc.FirstAndSecondWeight+fc.ThirdPeriodWeight-1) > weightEpsilon {
		violations = append(violations, "finalCalculation: weights must sum to 1.0")
	}

	if len(violations) > 0 {
		return appErrors.Clone(appErrors.ErrValidation, strings.Join(violations, "; "))
	}
	return nil
}
