package models

// ImportIssue flags one spreadsheet row that could not be used as-is.
type ImportIssue struct {
	Row     int    `json:"row"`
	Student string `json:"student,omitempty"`
	Message string `json:"message"`
}

// ImportRequest scopes an uploaded grade sheet to one cohort and subject.
type ImportRequest struct {
	SubjectID      string         `json:"subject_id" validate:"required"`
	AcademicYearID string         `json:"academic_year_id" validate:"required"`
	Period         PeriodKey      `json:"period" validate:"required"`
	EducationLevel EducationLevel `json:"education_level" validate:"required"`
	StudySystem    StudySystem    `json:"study_system" validate:"required"`
}

// ImportResult is the outcome of parsing an uploaded sheet. Entries are the
// rows that matched a student and validated cleanly; nothing is persisted
// until the sheet is reviewed and saved through the batch flow.
type ImportResult struct {
	Success  bool              `json:"success"`
	Matched  int               `json:"matched"`
	Entries  []GradeEntryInput `json:"entries"`
	Errors   []ImportIssue     `json:"errors"`
	Warnings []ImportIssue     `json:"warnings"`
}
