package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almanar-institute/grades-api/internal/models"
	"github.com/almanar-institute/grades-api/internal/service"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
	"github.com/almanar-institute/grades-api/pkg/response"
)

// ImportHandler accepts uploaded Excel grade sheets.
type ImportHandler struct {
	imports *service.ImportService
}

// NewImportHandler constructs handler.
func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// ImportExcel godoc
// @Summary Parse an uploaded Excel grade sheet
// @Description Matches rows to cohort students and returns pending entries plus per-row errors and warnings. Nothing is persisted.
// @Tags Grades
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook (.xlsx)"
// @Param subjectId formData string true "Subject"
// @Param academicYearId formData string true "Academic year"
// @Param period formData string true "Period key"
// @Param educationLevel formData string true "Education level"
// @Param studySystem formData string true "Study system"
// @Success 200 {object} response.Envelope
// @Router /grades/import-excel [post]
func (h *ImportHandler) ImportExcel(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to open uploaded file"))
		return
	}
	defer file.Close()
	payload, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read uploaded file"))
		return
	}

	req := models.ImportRequest{
		SubjectID:      c.PostForm("subjectId"),
		AcademicYearID: c.PostForm("academicYearId"),
		Period:         models.PeriodKey(c.PostForm("period")),
		EducationLevel: models.EducationLevel(c.PostForm("educationLevel")),
		StudySystem:    models.StudySystem(c.PostForm("studySystem")),
	}

	result, err := h.imports.ParseSheet(c.Request.Context(), req, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
