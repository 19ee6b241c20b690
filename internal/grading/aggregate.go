package grading

import (
	"math"

	"github.com/almanar-institute/grades-api/internal/models"
)

// PeriodInputs carries the raw values entering a totals computation. For the
// third period the month slots stay nil and the prior totals are populated
// from persisted first/second period rows; they are never recomputed here.
type PeriodInputs struct {
	Month1     *float64
	Month2     *float64
	Month3     *float64
	PeriodExam *float64

	FirstPeriodTotal  *float64
	SecondPeriodTotal *float64
}

// Totals holds every derived field of a grade record. Complete is false while
// the period exam is missing; such totals are in-progress values and must not
// be reported as final results.
type Totals struct {
	WorkTotal   float64 `json:"work_total"`
	PeriodTotal float64 `json:"period_total"`
	Percentage  float64 `json:"percentage"`
	LetterGrade string  `json:"letter_grade"`
	GradeColor  string  `json:"grade_color"`
	Complete    bool    `json:"complete"`
}

// ComputeTotals derives the aggregate fields for one period under the given
// distribution. The function is pure and idempotent.
func ComputeTotals(period models.PeriodKey, in PeriodInputs, dist models.GradeDistribution) Totals {
	cfg := dist.Period(period)

	var workTotal float64
	if cfg.MonthsCount > 0 {
		months := []*float64{in.Month1, in.Month2, in.Month3}
		sum := 0.0
		entered := 0
		for i := 0; i < cfg.MonthsCount && i < len(months); i++ {
			if months[i] == nil {
				continue
			}
			sum += *months[i]
			entered++
		}
		if entered > 0 {
			workTotal = sum / float64(entered)
		}
	}

	exam := 0.0
	if in.PeriodExam != nil {
		exam = *in.PeriodExam
	}

	var periodTotal float64
	if period == models.PeriodThird {
		// Cascade: previously persisted totals plus the final exam. A
		// change to first/second inputs after the fact does not move
		// this value until the caller recomputes with fresh pulls.
		if in.FirstPeriodTotal != nil {
			periodTotal += *in.FirstPeriodTotal
		}
		if in.SecondPeriodTotal != nil {
			periodTotal += *in.SecondPeriodTotal
		}
		periodTotal += exam
	} else {
		periodTotal = workTotal + exam
	}

	percentage := 0.0
	if dist.FinalCalculation.TotalGrade > 0 {
		percentage = round2(periodTotal / dist.FinalCalculation.TotalGrade * 100)
	}

	letter, color := Classify(percentage)

	return Totals{
		WorkTotal:   round2(workTotal),
		PeriodTotal: round2(periodTotal),
		Percentage:  percentage,
		LetterGrade: letter,
		GradeColor:  color,
		Complete:    in.PeriodExam != nil,
	}
}

// Classify maps a percentage onto the institute's letter bands. Thresholds
// are evaluated top-down; first match wins.
func Classify(percentage float64) (letter, color string) {
	switch {
	case percentage >= 90:
		return "ممتاز", "green"
	case percentage >= 80:
		return "جيد جداً", "blue"
	case percentage >= 70:
		return "جيد", "teal"
	case percentage >= 60:
		return "مقبول", "amber"
	default:
		return "راسب", "red"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
