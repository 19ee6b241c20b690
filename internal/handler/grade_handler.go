package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almanar-institute/grades-api/internal/models"
	"github.com/almanar-institute/grades-api/internal/service"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
	"github.com/almanar-institute/grades-api/pkg/response"
)

// GradeHandler exposes grade listing and the batch save flows.
type GradeHandler struct {
	grades  *service.GradeService
	metrics *service.MetricsService
}

// NewGradeHandler constructs handler. metrics may be nil.
func NewGradeHandler(grades *service.GradeService, metrics *service.MetricsService) *GradeHandler {
	return &GradeHandler{grades: grades, metrics: metrics}
}

// List godoc
// @Summary Saved grade rows for a scope
// @Tags Grades
// @Produce json
// @Param subjectId query string true "Subject"
// @Param academicYearId query string true "Academic year"
// @Param period query string true "Period key"
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	scope := models.GradeScope{
		SubjectID:      c.Query("subjectId"),
		AcademicYearID: c.Query("academicYearId"),
		Period:         models.PeriodKey(c.Query("period")),
	}
	rows, err := h.grades.ListByScope(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// SaveBatch godoc
// @Summary Save a first or second period sheet
// @Description All records must be approved; otherwise nothing is written and the error reports the blocking count.
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body models.BatchSaveRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) SaveBatch(c *gin.Context) {
	var req models.BatchSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.grades.SaveBatch(c.Request.Context(), req)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrIncompleteBatch) {
			h.metrics.ObserveBatchBlocked()
		}
		response.Error(c, err)
		return
	}
	h.metrics.ObserveBatchSaved(string(result.Period), result.SavedCount)
	response.JSON(c, http.StatusOK, result, nil)
}

// SaveThirdPeriod godoc
// @Summary Save a third-period sheet
// @Description First and second period totals are pulled read-only from persisted rows.
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body models.ThirdPeriodSaveRequest true "Third-period payload"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /grades/third-period [post]
func (h *GradeHandler) SaveThirdPeriod(c *gin.Context) {
	var req models.ThirdPeriodSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.grades.SaveThirdPeriod(c.Request.Context(), req)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrIncompleteBatch) {
			h.metrics.ObserveBatchBlocked()
		}
		response.Error(c, err)
		return
	}
	h.metrics.ObserveBatchSaved(string(result.Period), result.SavedCount)
	response.JSON(c, http.StatusOK, result, nil)
}
