package handler

import (
	"net/http"

	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/response"
	"github.com/doerhub/doerhub-backend/internal/service"
	"github.com/doerhub/doerhub-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AnalysisHandler exposes the AI-likelihood and plagiarism heuristics.
type AnalysisHandler struct {
	analysisService *service.AnalysisService
	log             zerolog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService *service.AnalysisService, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		log:             log.With().Str("component", "analysis_handler").Logger(),
	}
}

// AnalyzeText godoc
// POST /api/v1/analysis/text
// Runs both heuristics over the submitted text.
func (h *AnalysisHandler) AnalyzeText(c *gin.Context) {
	var req model.AnalyzeTextRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	response.Success(c, http.StatusOK, h.analysisService.AnalyzeText(req.Text))
}

// AnalyzeDeliverable godoc
// GET /api/v1/deliverables/:id/analysis
// Runs both heuristics over a text deliverable of a project the caller works on.
func (h *AnalysisHandler) AnalyzeDeliverable(c *gin.Context) {
	deliverableID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.analysisService.AnalyzeDeliverable(c.Request.Context(), deliverableID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}
