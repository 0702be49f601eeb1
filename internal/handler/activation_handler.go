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

// ActivationHandler handles the doer onboarding endpoints.
type ActivationHandler struct {
	activationService *service.ActivationService
	log               zerolog.Logger
}

// NewActivationHandler creates a new ActivationHandler.
func NewActivationHandler(activationService *service.ActivationService, log zerolog.Logger) *ActivationHandler {
	return &ActivationHandler{
		activationService: activationService,
		log:               log.With().Str("component", "activation_handler").Logger(),
	}
}

// GetStatus godoc
// GET /api/v1/activation
// Returns the current step, completion flags and remaining quiz attempts.
func (h *ActivationHandler) GetStatus(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	status, err := h.activationService.Status(c.Request.Context(), claims.UserID())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, status)
}

// CompleteTraining godoc
// POST /api/v1/activation/training/complete
// Marks the training step done. Repeating it is a no-op.
func (h *ActivationHandler) CompleteTraining(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	status, err := h.activationService.CompleteTraining(c.Request.Context(), claims.UserID())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, status)
}

// GetQuiz godoc
// GET /api/v1/activation/quiz
// Returns the active quiz questions without the answer key.
func (h *ActivationHandler) GetQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	questions, err := h.activationService.QuizQuestions(c.Request.Context(), claims.UserID())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// SubmitQuiz godoc
// POST /api/v1/activation/quiz/attempts
// Scores one attempt. A rate-limited call still returns 200 with
// rate_limited set and the minutes until the next slot frees up.
func (h *ActivationHandler) SubmitQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.activationService.SubmitQuiz(c.Request.Context(), claims.UserID(), &req)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	status := http.StatusCreated
	if result.RateLimited {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// ListAttempts godoc
// GET /api/v1/activation/quiz/attempts
// Lists the caller's past quiz attempts, newest first.
func (h *ActivationHandler) ListAttempts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attempts, err := h.activationService.Attempts(c.Request.Context(), claims.UserID())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// PutBankDetails godoc
// PUT /api/v1/activation/bank-details
// Stores payout details and completes activation once the quiz is passed.
func (h *ActivationHandler) PutBankDetails(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.BankDetailsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	details, status, err := h.activationService.SaveBankDetails(c.Request.Context(), claims.UserID(), &req)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"bank_details": details,
		"activation":   status,
	})
}

// GetBankDetails godoc
// GET /api/v1/activation/bank-details
// Returns the caller's payout details with the account number masked.
func (h *ActivationHandler) GetBankDetails(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	details, err := h.activationService.BankDetails(c.Request.Context(), claims.UserID())
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bank_details": details})
}
