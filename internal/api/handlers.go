package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talentflow/talentflow/internal/domain"
	"github.com/talentflow/talentflow/internal/dto"
	"github.com/talentflow/talentflow/internal/service"
)

// handlers adapts the data service to gin
type handlers struct {
	logger *slog.Logger
	svc    *service.Service
}

func newHandlers(deps *Dependencies) *handlers {
	return &handlers{
		logger: deps.Logger,
		svc:    deps.Service,
	}
}

// respondError maps service errors onto HTTP statuses. The injected network
// failure surfaces as a bad gateway so clients treat it as retryable.
func (h *handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSimulatedNetwork):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// ListJobs handles GET /api/jobs
func (h *handlers) ListJobs(c *gin.Context) {
	var params dto.ListJobsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	page, err := h.svc.ListJobs(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// CreateJob handles POST /api/jobs
func (h *handlers) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	job, err := h.svc.CreateJob(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJob handles PATCH /api/jobs/:id
func (h *handlers) UpdateJob(c *gin.Context) {
	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	job, err := h.svc.UpdateJob(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListCandidates handles GET /api/candidates
func (h *handlers) ListCandidates(c *gin.Context) {
	var params dto.ListCandidatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	page, err := h.svc.ListCandidates(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// UpdateCandidate handles PATCH /api/candidates/:id
func (h *handlers) UpdateCandidate(c *gin.Context) {
	var req dto.UpdateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	candidate, err := h.svc.UpdateCandidate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// GetTimeline handles GET /api/candidates/:id/timeline
func (h *handlers) GetTimeline(c *gin.Context) {
	entries, err := h.svc.GetTimeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if entries == nil {
		entries = []domain.TimelineEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// GetAssessment handles GET /api/assessments/:jobId. A job without an
// assessment yields a JSON null body, not a 404.
func (h *handlers) GetAssessment(c *gin.Context) {
	assessment, err := h.svc.GetAssessment(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// UpsertAssessment handles PUT /api/assessments/:jobId
func (h *handlers) UpsertAssessment(c *gin.Context) {
	var req dto.UpsertAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	assessment, err := h.svc.UpsertAssessment(c.Request.Context(), c.Param("jobId"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}
