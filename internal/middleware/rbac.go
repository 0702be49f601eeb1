package middleware

import (
	"context"
	"net/http"

	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequireRole admits only callers signed in to the given portal.
func RequireRole(role model.PortalRole) gin.HandlerFunc {
	code := response.ErrDoerOnly
	if role == model.RoleSupervisor {
		code = response.ErrSupervisorOnly
	}

	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if claims.Role() != role {
			response.AbortFail(c, http.StatusForbidden, code)
			return
		}
		c.Next()
	}
}

// ActivationChecker reports whether a doer finished onboarding.
type ActivationChecker interface {
	IsActivated(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RequireActivated blocks doers who have not finished activation.
// Supervisors pass through.
func RequireActivated(checker ActivationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if claims.Role() == model.RoleSupervisor {
			c.Next()
			return
		}

		ok, err := checker.IsActivated(c.Request.Context(), claims.UserID())
		if err != nil {
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if !ok {
			response.AbortFail(c, http.StatusForbidden, response.ErrActivationRequired)
			return
		}
		c.Next()
	}
}
