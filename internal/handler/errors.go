package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/doerhub/doerhub-backend/internal/response"
	"github.com/doerhub/doerhub-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// serviceFailures maps domain sentinels to their HTTP status and code.
var serviceFailures = []struct {
	err    error
	status int
	code   response.ErrCode
}{
	{service.ErrStepLocked, http.StatusConflict, response.ErrStepLocked},
	{service.ErrQuizAlreadyPassed, http.StatusConflict, response.ErrQuizAlreadyPassed},
	{service.ErrNoQuestions, http.StatusServiceUnavailable, response.ErrNoQuestions},
	{service.ErrAttemptInProgress, http.StatusConflict, response.ErrAttemptInProgress},
	{service.ErrInvalidStatusChange, http.StatusConflict, response.ErrInvalidStatusChange},
	{service.ErrNotTextDeliverable, http.StatusUnprocessableEntity, response.ErrNotTextDeliverable},
	{service.ErrUnsupportedFileType, http.StatusBadRequest, response.ErrUnsupportedFile},
	{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge},
	{pgx.ErrNoRows, http.StatusNotFound, response.ErrNotFound},
}

// failFromError writes the response for a service error. Authorization
// failures use the generic guard bodies; anything unknown is a 500.
func failFromError(c *gin.Context, log zerolog.Logger, err error) {
	if response.GuardFailure(c, err) {
		return
	}
	for _, f := range serviceFailures {
		if errors.Is(err, f.err) {
			response.Fail(c, f.status, f.code)
			return
		}
	}

	log.Error().Err(err).
		Str("request_id", response.RequestID(c)).
		Str("path", c.FullPath()).
		Msg("Request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// parseUUIDParam reads a UUID path parameter, writing INVALID_ID on failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// parseHistoryQuery reads ?before=RFC3339&limit=N. A missing before means now.
func parseHistoryQuery(c *gin.Context) (time.Time, int, bool) {
	before := time.Now()
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"before": "before must be an RFC 3339 timestamp"})
			return time.Time{}, 0, false
		}
		before = t
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"limit": "limit must be a positive number"})
			return time.Time{}, 0, false
		}
		limit = n
	}
	return before, limit, true
}
