package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sprint-planner/internal/models"
	"sprint-planner/internal/planning"
)

// PlanHandler serves the planning endpoints
type PlanHandler struct {
	planner *planning.Planner
	logger  *zap.Logger
}

// NewPlanHandler creates a plan handler
func NewPlanHandler(planner *planning.Planner, logger *zap.Logger) *PlanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanHandler{
		planner: planner,
		logger:  logger,
	}
}

// QuotasResponse is the body returned by Quotas
type QuotasResponse struct {
	Tier   models.ComplexityTier `json:"tier"`
	Quotas models.Quotas         `json:"quotas"`
}

// ImproveDescriptionRequest is the body accepted by ImproveDescription
type ImproveDescriptionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// Health reports that the server is up
// GET /health
func (h *PlanHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Quotas previews the tier and quotas of a project
// POST /api/ai/quotas
func (h *PlanHandler) Quotas(c *gin.Context) {
	var project models.ProjectData
	if err := c.ShouldBindJSON(&project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	tier, quotas, err := h.planner.Quotas(&project)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, QuotasResponse{Tier: tier, Quotas: quotas})
}

// GeneratePlan generates a rebalanced plan for a project
// POST /api/ai/project-plan
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	var project models.ProjectData
	if err := c.ShouldBindJSON(&project); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.planner.Plan(c.Request.Context(), &project)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ImproveDescription rewrites a task description
// POST /api/ai/improve-description
func (h *PlanHandler) ImproveDescription(c *gin.Context) {
	var req ImproveDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	description, err := h.planner.ImproveDescription(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"description": description})
}

func (h *PlanHandler) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	h.logger.Warn("Planning request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err))
	c.JSON(status, gin.H{"error": planning.UserMessage(err)})
}

// StatusFor maps a planning error to an HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, planning.ErrInvalidProject):
		return http.StatusBadRequest
	case errors.Is(err, planning.ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.Is(err, planning.ErrMalformedResponse),
		errors.Is(err, planning.ErrInvalidPlanStructure),
		errors.Is(err, planning.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
