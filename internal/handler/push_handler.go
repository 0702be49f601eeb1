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

// PushHandler manages web push subscriptions.
type PushHandler struct {
	notificationService *service.NotificationService
	log                 zerolog.Logger
}

// NewPushHandler creates a new PushHandler.
func NewPushHandler(notificationService *service.NotificationService, log zerolog.Logger) *PushHandler {
	return &PushHandler{
		notificationService: notificationService,
		log:                 log.With().Str("component", "push_handler").Logger(),
	}
}

// Subscribe godoc
// POST /api/v1/push/subscriptions
// Registers the browser push endpoint of the caller.
func (h *PushHandler) Subscribe(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.PushSubscriptionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.notificationService.Subscribe(c.Request.Context(), claims.UserID(), &req)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"subscription": sub})
}

// Unsubscribe godoc
// DELETE /api/v1/push/subscriptions
// Removes one push endpoint of the caller.
func (h *PushHandler) Unsubscribe(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.UnsubscribeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.notificationService.Unsubscribe(c.Request.Context(), claims.UserID(), req.Endpoint); err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
