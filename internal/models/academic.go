package models

import "time"

// EducationLevel identifies the study year of a cohort. Values are the
// institute's canonical Arabic labels and are stored verbatim.
type EducationLevel string

const (
	LevelFirstYear  EducationLevel = "السنة الأولى"
	LevelSecondYear EducationLevel = "السنة الثانية"
	LevelThirdYear  EducationLevel = "السنة الثالثة"
)

// Valid reports whether the level is one of the three institute years.
func (l EducationLevel) Valid() bool {
	switch l {
	case LevelFirstYear, LevelSecondYear, LevelThirdYear:
		return true
	}
	return false
}

// StudySystem distinguishes regular attendance from distance learning.
type StudySystem string

const (
	SystemRegular  StudySystem = "نظامي"
	SystemDistance StudySystem = "انتساب"
)

// Valid reports whether the system is a known study mode.
func (s StudySystem) Valid() bool {
	return s == SystemRegular || s == SystemDistance
}

// PeriodKey identifies one of the three evaluation windows within a year.
type PeriodKey string

const (
	PeriodFirst  PeriodKey = "firstPeriod"
	PeriodSecond PeriodKey = "secondPeriod"
	PeriodThird  PeriodKey = "thirdPeriod"
)

// Label returns the institute's display name for the period.
func (p PeriodKey) Label() string {
	switch p {
	case PeriodFirst:
		return "الفترة الأولى"
	case PeriodSecond:
		return "الفترة الثانية"
	case PeriodThird:
		return "الفترة الثالثة"
	}
	return string(p)
}

// Valid reports whether the key names a known period.
func (p PeriodKey) Valid() bool {
	return p == PeriodFirst || p == PeriodSecond || p == PeriodThird
}

// Subject is a taught course.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AcademicYear names a school year, e.g. "2025-2026".
type AcademicYear struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
