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

// ProjectHandler handles project, deliverable and revision endpoints.
type ProjectHandler struct {
	projectService *service.ProjectService
	log            zerolog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *service.ProjectService, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		log:            log.With().Str("component", "project_handler").Logger(),
	}
}

// ListProjects godoc
// GET /api/v1/projects
// Lists projects assigned to the caller, as doer or as supervisor.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListMine(c.Request.Context())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"projects": projects})
}

// GetProject godoc
// GET /api/v1/projects/:id
// Returns a project with its files, deliverables and revisions.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.projectService.Detail(c.Request.Context(), projectID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// UpdateStatus godoc
// PATCH /api/v1/projects/:id/status
// Moves a project to a new status. Supervisor only.
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateProjectStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	project, err := h.projectService.UpdateStatus(c.Request.Context(), projectID, req.Status)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"project": project})
}

// SubmitDeliverable godoc
// POST /api/v1/projects/:id/deliverables
// Uploads the next deliverable version. Assigned doer only.
func (h *ProjectHandler) SubmitDeliverable(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	deliverable, err := h.projectService.SubmitDeliverable(c.Request.Context(), projectID, file, header)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"deliverable": deliverable})
}

// RequestRevision godoc
// POST /api/v1/projects/:id/revisions
// Sends the work back to the doer with feedback. Supervisor only.
func (h *ProjectHandler) RequestRevision(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.RequestRevisionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	revision, err := h.projectService.RequestRevision(c.Request.Context(), projectID, req.Feedback)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"revision": revision})
}
