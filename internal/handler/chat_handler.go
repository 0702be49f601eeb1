package handler

import (
	"net/http"
	"time"

	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/response"
	"github.com/doerhub/doerhub-backend/internal/service"
	"github.com/doerhub/doerhub-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ChatHandler handles project chat over plain HTTP.
type ChatHandler struct {
	chatService *service.ChatService
	log         zerolog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *service.ChatService, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log.With().Str("component", "chat_handler").Logger(),
	}
}

// ListMessages godoc
// GET /api/v1/projects/:id/chat/messages?before=&limit=
// Returns a page of messages older than `before`, newest first.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	before, limit, ok := parseHistoryQuery(c)
	if !ok {
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), projectID, before, limit)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	var oldest time.Time
	if len(messages) > 0 {
		oldest = messages[len(messages)-1].CreatedAt
	}
	cursor := response.NewCursor(service.ClampHistoryLimit(limit), len(messages), oldest)
	response.SuccessWithCursor(c, http.StatusOK, gin.H{"messages": messages}, cursor)
}

// SendMessage godoc
// POST /api/v1/projects/:id/chat/messages
// Stores a message and fans it out to live subscribers.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	msg, err := h.chatService.Send(c.Request.Context(), projectID, uuid.Nil, req.Body)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}
