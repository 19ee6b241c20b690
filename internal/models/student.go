package models

import "time"

// Student represents a registered student record.
type Student struct {
	ID             string         `db:"id" json:"id"`
	FullName       string         `db:"full_name" json:"full_name"`
	EducationLevel EducationLevel `db:"education_level" json:"education_level"`
	StudySystem    StudySystem    `db:"study_system" json:"study_system"`
	AcademicYearID string         `db:"academic_year_id" json:"academic_year_id"`
	Specialization string         `db:"specialization" json:"specialization"`
	Active         bool           `db:"active" json:"active"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// StudentFilter captures listing criteria for the student directory.
type StudentFilter struct {
	AcademicYearID string
	EducationLevel EducationLevel
	StudySystem    StudySystem
	Specialization string
	Search         string
	Active         *bool
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}

// GradeScope pins a grade-entry operation to one subject, year and period.
type GradeScope struct {
	SubjectID      string    `json:"subject_id"`
	AcademicYearID string    `json:"academic_year_id"`
	Period         PeriodKey `json:"period"`
}

// StudentWithGrade pairs a student with the grade row already persisted for a
// scope, if any. Editable mirrors the period-availability rule for the
// student's cohort.
type StudentWithGrade struct {
	Student  Student             `json:"student"`
	Grade    *StudentGradeRecord `json:"grade,omitempty"`
	Editable bool                `json:"editable"`
}
