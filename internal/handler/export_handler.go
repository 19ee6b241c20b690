package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/almanar-institute/grades-api/internal/models"
	"github.com/almanar-institute/grades-api/internal/service"
	"github.com/almanar-institute/grades-api/pkg/response"
)

// ExportHandler streams rendered grade sheets.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export godoc
// @Summary Download a grade sheet as CSV or PDF
// @Tags Grades
// @Produce octet-stream
// @Param subjectId query string true "Subject"
// @Param academicYearId query string true "Academic year"
// @Param period query string true "Period key"
// @Param educationLevel query string true "Education level"
// @Param studySystem query string true "Study system"
// @Param format query string true "csv or pdf"
// @Success 200 {file} binary
// @Router /grades/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	req := service.ExportRequest{
		SubjectID:      c.Query("subjectId"),
		AcademicYearID: c.Query("academicYearId"),
		Period:         models.PeriodKey(c.Query("period")),
		EducationLevel: models.EducationLevel(c.Query("educationLevel")),
		StudySystem:    models.StudySystem(c.Query("studySystem")),
		Format:         service.ExportFormat(c.Query("format")),
	}

	file, err := h.exports.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(200, file.ContentType, file.Payload)
}
