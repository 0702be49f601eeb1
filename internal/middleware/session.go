package middleware

import (
	"github.com/doerhub/doerhub-backend/internal/authz"
	"github.com/doerhub/doerhub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// attachSession publishes the caller to both the Gin context (for handlers)
// and the request context (for services guarded by authz).
func attachSession(c *gin.Context, claims *service.Claims) {
	c.Set(ContextKeyClaims, claims)
	c.Request = c.Request.WithContext(authz.WithIdentity(c.Request.Context(), claims.Identity()))
}
