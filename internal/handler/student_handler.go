package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/almanar-institute/grades-api/internal/models"
	"github.com/almanar-institute/grades-api/internal/service"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
	"github.com/almanar-institute/grades-api/pkg/response"
)

// StudentHandler exposes the student directory and grading roster.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs handler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param academicYearId query string false "Filter by academic year"
// @Param educationLevel query string false "Filter by education level"
// @Param studySystem query string false "Filter by study system"
// @Param search query string false "Search by name"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		AcademicYearID: c.Query("academicYearId"),
		EducationLevel: models.EducationLevel(c.Query("educationLevel")),
		StudySystem:    models.StudySystem(c.Query("studySystem")),
		Specialization: c.Query("specialization"),
		Search:         c.Query("search"),
		SortBy:         c.Query("sortBy"),
		SortOrder:      c.Query("sortOrder"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if active := c.Query("active"); active != "" {
		value := active == "true"
		filter.Active = &value
	}

	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get a student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create godoc
// @Summary Register a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body models.Student true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var student models.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.students.Create(c.Request.Context(), &student)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Update a student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.Student true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var student models.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student.ID = c.Param("id")
	updated, err := h.students.Update(c.Request.Context(), &student)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Roster godoc
// @Summary Cohort roster merged with saved grades
// @Tags Students
// @Produce json
// @Param academicYearId query string true "Academic year"
// @Param educationLevel query string true "Education level"
// @Param studySystem query string true "Study system"
// @Param subjectId query string true "Subject"
// @Param period query string false "Period key"
// @Success 200 {object} response.Envelope
// @Router /students/filtered [get]
func (h *StudentHandler) Roster(c *gin.Context) {
	req := service.RosterRequest{
		AcademicYearID: c.Query("academicYearId"),
		EducationLevel: models.EducationLevel(c.Query("educationLevel")),
		StudySystem:    models.StudySystem(c.Query("studySystem")),
		SubjectID:      c.Query("subjectId"),
		Period:         models.PeriodKey(c.Query("period")),
	}
	roster, err := h.students.Roster(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}
