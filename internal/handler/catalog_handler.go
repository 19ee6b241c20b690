package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almanar-institute/grades-api/internal/models"
	"github.com/almanar-institute/grades-api/internal/service"
	"github.com/almanar-institute/grades-api/pkg/response"
)

// CatalogHandler exposes subjects, academic years and period availability.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListSubjects godoc
// @Summary List subjects
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.catalog.ListSubjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// ListAcademicYears godoc
// @Summary List academic years
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /academic-years [get]
func (h *CatalogHandler) ListAcademicYears(c *gin.Context) {
	years, err := h.catalog.ListAcademicYears(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, years, nil)
}

// AvailablePeriods godoc
// @Summary Periods a cohort can be graded in
// @Tags Catalog
// @Produce json
// @Param educationLevel query string true "Education level"
// @Param studySystem query string true "Study system"
// @Success 200 {object} response.Envelope
// @Router /periods [get]
func (h *CatalogHandler) AvailablePeriods(c *gin.Context) {
	options, err := h.catalog.AvailablePeriods(
		models.EducationLevel(c.Query("educationLevel")),
		models.StudySystem(c.Query("studySystem")),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}
