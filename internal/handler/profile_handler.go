package handler

import (
	"net/http"

	"github.com/doerhub/doerhub-backend/internal/middleware"
	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/response"
	"github.com/doerhub/doerhub-backend/internal/service"
	"github.com/doerhub/doerhub-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProfileHandler handles the caller's session and profile endpoints.
type ProfileHandler struct {
	authService    *service.AuthService
	profileService *service.ProfileService
	log            zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(authService *service.AuthService, profileService *service.ProfileService, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		authService:    authService,
		profileService: profileService,
		log:            log.With().Str("component", "profile_handler").Logger(),
	}
}

// GetMe godoc
// GET /api/v1/me
// Returns the caller's profile, provisioning it on first sign-in.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	profile, err := h.profileService.GetOrProvision(c.Request.Context())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// UpdateMe godoc
// PUT /api/v1/me
// Updates the caller's own profile.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ctx := c.Request.Context()
	current, err := h.profileService.GetOrProvision(ctx)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	profile, err := h.profileService.Update(ctx, current.ID, &req)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// UploadCV godoc
// POST /api/v1/me/cv
// Uploads a CV (PDF or Word) and links it to the caller's profile.
func (h *ProfileHandler) UploadCV(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	current, err := h.profileService.GetOrProvision(ctx)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	url, err := h.profileService.UploadCV(ctx, current.ID, file, header)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cv_url": url})
}

// Logout godoc
// POST /api/v1/auth/logout
// Revokes the presented access token until it expires.
func (h *ProfileHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Revoke(c.Request.Context(), claims); err != nil {
		h.log.Error().Err(err).Msg("Failed to revoke token")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
