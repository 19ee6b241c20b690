package models

import "time"

// PeriodConfig defines the grading scheme of one evaluation period.
type PeriodConfig struct {
	MonthsCount  int     `json:"monthsCount"`
	MonthlyGrade float64 `json:"monthlyGrade"`
	PeriodExam   float64 `json:"periodExam"`
}

// ExpectedTotal is the nominal maximum the period can contribute.
func (p PeriodConfig) ExpectedTotal() float64 {
	return p.MonthlyGrade*float64(p.MonthsCount) + p.PeriodExam
}

// FinalCalculation describes how period totals combine into the final grade.
type FinalCalculation struct {
	FirstAndSecondWeight float64 `json:"firstAndSecondWeight"`
	ThirdPeriodWeight    float64 `json:"thirdPeriodWeight"`
	TotalGrade           float64 `json:"totalGrade"`
}

// GradeDistribution is the rule set governing how a (level, system) cohort's
// grades are computed.
type GradeDistribution struct {
	EducationLevel   EducationLevel              `json:"education_level"`
	StudySystem      StudySystem                 `json:"study_system"`
	Periods          map[PeriodKey]PeriodConfig  `json:"periods"`
	FinalCalculation FinalCalculation            `json:"finalCalculation"`
}

// Period returns the configuration for a period key, zero valued when the
// distribution does not cover it.
func (d GradeDistribution) Period(key PeriodKey) PeriodConfig {
	return d.Periods[key]
}

// GradeDistributionRow is the flattened persistence shape of a distribution
// override, one row per (education_level, study_system).
type GradeDistributionRow struct {
	ID                   string         `db:"id" json:"id"`
	EducationLevel       EducationLevel `db:"education_level" json:"education_level"`
	StudySystem          StudySystem    `db:"study_system" json:"study_system"`
	FirstMonthsCount     int            `db:"first_months_count" json:"first_months_count"`
	FirstMonthlyGrade    float64        `db:"first_monthly_grade" json:"first_monthly_grade"`
	FirstPeriodExam      float64        `db:"first_period_exam" json:"first_period_exam"`
	SecondMonthsCount    int            `db:"second_months_count" json:"second_months_count"`
	SecondMonthlyGrade   float64        `db:"second_monthly_grade" json:"second_monthly_grade"`
	SecondPeriodExam     float64        `db:"second_period_exam" json:"second_period_exam"`
	ThirdMonthsCount     int            `db:"third_months_count" json:"third_months_count"`
	ThirdMonthlyGrade    float64        `db:"third_monthly_grade" json:"third_monthly_grade"`
	ThirdPeriodExam      float64        `db:"third_period_exam" json:"third_period_exam"`
	FirstAndSecondWeight float64        `db:"first_and_second_weight" json:"first_and_second_weight"`
	ThirdPeriodWeight    float64        `db:"third_period_weight" json:"third_period_weight"`
	TotalGrade           float64        `db:"total_grade" json:"total_grade"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updated_at"`
}

// Distribution reconstructs the nested rule set from the flat row.
func (r GradeDistributionRow) Distribution() GradeDistribution {
	return GradeDistribution{
		EducationLevel: r.EducationLevel,
		StudySystem:    r.StudySystem,
		Periods: map[PeriodKey]PeriodConfig{
			PeriodFirst:  {MonthsCount: r.FirstMonthsCount, MonthlyGrade: r.FirstMonthlyGrade, PeriodExam: r.FirstPeriodExam},
			PeriodSecond: {MonthsCount: r.SecondMonthsCount, MonthlyGrade: r.SecondMonthlyGrade, PeriodExam: r.SecondPeriodExam},
			PeriodThird:  {MonthsCount: r.ThirdMonthsCount, MonthlyGrade: r.ThirdMonthlyGrade, PeriodExam: r.ThirdPeriodExam},
		},
		FinalCalculation: FinalCalculation{
			FirstAndSecondWeight: r.FirstAndSecondWeight,
			ThirdPeriodWeight:    r.ThirdPeriodWeight,
			TotalGrade:           r.TotalGrade,
		},
	}
}

// RowFromDistribution flattens a distribution for persistence.
func RowFromDistribution(d GradeDistribution) GradeDistributionRow {
	first := d.Periods[PeriodFirst]
	second := d.Periods[PeriodSecond]
	third := d.Periods[PeriodThird]
	return GradeDistributionRow{
		EducationLevel:       d.EducationLevel,
		StudySystem:          d.StudySystem,
		FirstMonthsCount:     first.MonthsCount,
		FirstMonthlyGrade:    first.MonthlyGrade,
		FirstPeriodExam:      first.PeriodExam,
		SecondMonthsCount:    second.MonthsCount,
		SecondMonthlyGrade:   second.MonthlyGrade,
		SecondPeriodExam:     second.PeriodExam,
		ThirdMonthsCount:     third.MonthsCount,
		ThirdMonthlyGrade:    third.MonthlyGrade,
		ThirdPeriodExam:      third.PeriodExam,
		FirstAndSecondWeight: d.FinalCalculation.FirstAndSecondWeight,
		ThirdPeriodWeight:    d.FinalCalculation.ThirdPeriodWeight,
		TotalGrade:           d.FinalCalculation.TotalGrade,
	}
}
