package models

import "time"

// ReviewState tracks a grade record through the review workflow.
type ReviewState string

const (
	ReviewNone     ReviewState = "none"
	ReviewPending  ReviewState = "pending"
	ReviewReviewed ReviewState = "reviewed"
	ReviewApproved ReviewState = "approved"
)

// Valid reports whether the state is one of the known workflow states.
func (s ReviewState) Valid() bool {
	switch s {
	case ReviewNone, ReviewPending, ReviewReviewed, ReviewApproved:
		return true
	}
	return false
}

// StudentGradeRecord is a per (student, subject, academic year, period) grade
// row. Month fields and the exam are raw teacher inputs; the remaining fields
// are derived by the grading engine and never entered directly.
type StudentGradeRecord struct {
	ID             string      `db:"id" json:"id"`
	StudentID      string      `db:"student_id" json:"student_id"`
	SubjectID      string      `db:"subject_id" json:"subject_id"`
	SubjectName    string      `db:"subject_name" json:"subject_name"`
	AcademicYearID string      `db:"academic_year_id" json:"academic_year_id"`
	Period         PeriodKey   `db:"period" json:"period"`
	Month1         *float64    `db:"month1" json:"month1"`
	Month2         *float64    `db:"month2" json:"month2"`
	Month3         *float64    `db:"month3" json:"month3"`
	PeriodExam     *float64    `db:"period_exam" json:"period_exam"`
	WorkTotal      float64     `db:"work_total" json:"work_total"`
	PeriodTotal    float64     `db:"period_total" json:"period_total"`
	Percentage     float64     `db:"percentage" json:"percentage"`
	LetterGrade    string      `db:"letter_grade" json:"letter_grade"`
	GradeColor     string      `db:"grade_color" json:"grade_color"`
	ReviewState    ReviewState `db:"review_state" json:"review_state"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// Complete reports whether the period exam has been entered; totals of
// incomplete records are in-progress values, not final results.
func (r StudentGradeRecord) Complete() bool {
	return r.PeriodExam != nil
}

// GradeFilter scopes grade row queries.
type GradeFilter struct {
	StudentID      string
	SubjectID      string
	AcademicYearID string
	Period         PeriodKey
}

// GradeEntryInput is one student's raw inputs in a batch save. ReviewState is
// the state the entry should end up in; the workflow still enforces legal
// transitions from whatever is persisted.
type GradeEntryInput struct {
	StudentID   string      `json:"student_id" validate:"required"`
	Month1      *float64    `json:"month1"`
	Month2      *float64    `json:"month2"`
	Month3      *float64    `json:"month3"`
	PeriodExam  *float64    `json:"period_exam"`
	ReviewState ReviewState `json:"review_state" validate:"required"`
}

// BatchSaveRequest saves a whole grading sheet for one cohort scope. The save
// is all-or-nothing and every entry must reach the approved state.
type BatchSaveRequest struct {
	SubjectID      string            `json:"subject_id" validate:"required"`
	AcademicYearID string            `json:"academic_year_id" validate:"required"`
	Period         PeriodKey         `json:"period" validate:"required"`
	EducationLevel EducationLevel    `json:"education_level" validate:"required"`
	StudySystem    StudySystem       `json:"study_system" validate:"required"`
	Entries        []GradeEntryInput `json:"entries" validate:"required,min=1,dive"`
}

// ThirdPeriodEntryInput is one student's third-period input. Only the exam is
// entered; the first and second period totals are pulled from persisted rows.
type ThirdPeriodEntryInput struct {
	StudentID   string      `json:"student_id" validate:"required"`
	PeriodExam  *float64    `json:"period_exam"`
	ReviewState ReviewState `json:"review_state" validate:"required"`
}

// ThirdPeriodSaveRequest saves the third-period sheet for one cohort scope.
type ThirdPeriodSaveRequest struct {
	SubjectID      string                  `json:"subject_id" validate:"required"`
	AcademicYearID string                  `json:"academic_year_id" validate:"required"`
	EducationLevel EducationLevel          `json:"education_level" validate:"required"`
	StudySystem    StudySystem             `json:"study_system" validate:"required"`
	Entries        []ThirdPeriodEntryInput `json:"entries" validate:"required,min=1,dive"`
}

// BatchSaveResult reports a committed batch.
type BatchSaveResult struct {
	SavedCount int       `json:"saved_count"`
	Period     PeriodKey `json:"period"`
	SavedAt    time.Time `json:"saved_at"`
}

// PeriodTotals carries the persisted first and second period totals pulled,
// read-only, into a third-period computation.
type PeriodTotals struct {
	First  *float64 `db:"first_total" json:"first_total"`
	Second *float64 `db:"second_total" json:"second_total"`
}
