package grading

import "github.com/almanar-institute/grades-api/internal/models"

// AvailablePeriods returns the evaluation periods selectable for a cohort.
// Pure function of the two inputs:
//
//	year 1/2 regular   → all three periods
//	year 1/2 distance  → third period only
//	year 3 regular     → first and second period
//	year 3 distance    → none (roster is listed read-only)
func AvailablePeriods(level models.EducationLevel, system models.StudySystem) []models.PeriodKey {
	thirdYear := level == models.LevelThirdYear
	distance := system == models.SystemDistance

	switch {
	case thirdYear && distance:
		return nil
	case thirdYear:
		return []models.PeriodKey{models.PeriodFirst, models.PeriodSecond}
	case distance:
		return []models.PeriodKey{models.PeriodThird}
	default:
		return []models.PeriodKey{models.PeriodFirst, models.PeriodSecond, models.PeriodThird}
	}
}

// PeriodAvailable reports whether a specific period is selectable for a cohort.
func PeriodAvailable(level models.EducationLevel, system models.StudySystem, period models.PeriodKey) bool {
	for _, p := range AvailablePeriods(level, system) {
		if p == period {
			return true
		}
	}
	return false
}

// Gradable reports whether a cohort participates in the grading workflow at
// all. Third-year distance students do not; their roster is names-only.
func Gradable(level models.EducationLevel, system models.StudySystem) bool {
	return len(AvailablePeriods(level, system)) > 0
}
