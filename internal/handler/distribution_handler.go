package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almanar-institute/grades-api/internal/models"
	"github.com/almanar-institute/grades-api/internal/service"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
	"github.com/almanar-institute/grades-api/pkg/response"
)

// DistributionHandler exposes the flexible grade-distribution endpoints.
type DistributionHandler struct {
	distributions *service.DistributionService
}

// NewDistributionHandler constructs handler.
func NewDistributionHandler(distributions *service.DistributionService) *DistributionHandler {
	return &DistributionHandler{distributions: distributions}
}

type distributionPayload struct {
	EducationLevel models.EducationLevel    `json:"education_level" binding:"required"`
	StudySystem    models.StudySystem       `json:"study_system" binding:"required"`
	Distribution   models.GradeDistribution `json:"distribution" binding:"required"`
}

// Resolve godoc
// @Summary Effective grade distribution for a cohort
// @Tags Distributions
// @Produce json
// @Param educationLevel query string true "Education level"
// @Param studySystem query string true "Study system"
// @Success 200 {object} response.Envelope
// @Router /flexible-grade-distributions [get]
func (h *DistributionHandler) Resolve(c *gin.Context) {
	dist, err := h.distributions.Resolve(c.Request.Context(),
		models.EducationLevel(c.Query("educationLevel")),
		models.StudySystem(c.Query("studySystem")),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dist, nil)
}

// List godoc
// @Summary List stored distribution overrides
// @Tags Distributions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /flexible-grade-distributions/overrides [get]
func (h *DistributionHandler) List(c *gin.Context) {
	rows, err := h.distributions.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Create godoc
// @Summary Store a distribution override for a cohort
// @Tags Distributions
// @Accept json
// @Produce json
// @Param payload body distributionPayload true "Distribution payload"
// @Success 201 {object} response.Envelope
// @Router /flexible-grade-distributions [post]
func (h *DistributionHandler) Create(c *gin.Context) {
	var req distributionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	row, err := h.distributions.Save(c.Request.Context(), req.EducationLevel, req.StudySystem, req.Distribution)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, row)
}

// Update godoc
// @Summary Replace the distribution override for a cohort
// @Tags Distributions
// @Accept json
// @Produce json
// @Param payload body distributionPayload true "Distribution payload"
// @Success 200 {object} response.Envelope
// @Router /flexible-grade-distributions [put]
func (h *DistributionHandler) Update(c *gin.Context) {
	var req distributionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	row, err := h.distributions.Save(c.Request.Context(), req.EducationLevel, req.StudySystem, req.Distribution)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, row, nil)
}
