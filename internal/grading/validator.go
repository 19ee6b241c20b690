package grading

import (
	"fmt"
	"math"
)

// GradeKind distinguishes monthly assessments from period exams.
type GradeKind string

const (
	KindMonthly GradeKind = "monthly"
	KindExam    GradeKind = "exam"
)

// ValidationResult reports the outcome of a single grade check.
type ValidationResult struct {
	IsValid bool
	Error   string
}

// ValidateGrade checks one raw grade value against the configured maximum.
// Rules apply in order: negativity, maximum, then decimal precision for
// monthly grades. The function is pure; callers must not mutate any state
// when IsValid is false.
func ValidateGrade(value, maxGrade float64, kind GradeKind) ValidationResult {
	if value < 0 {
		return ValidationResult{Error: "grade cannot be negative"}
	}
	if value > maxGrade {
		return ValidationResult{Error: fmt.Sprintf("grade cannot exceed %g", maxGrade)}
	}
	if kind == KindMonthly && !hasAtMostTwoDecimals(value) {
		return ValidationResult{Error: "at most two decimal places"}
	}
	return ValidationResult{IsValid: true}
}

// hasAtMostTwoDecimals tolerates binary float representation error when
// checking entry precision.
func hasAtMostTwoDecimals(value float64) bool {
	scaled := value * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}
