package response

import (
	"errors"
	"net/http"

	"github.com/doerhub/doerhub-backend/internal/authz"
	"github.com/gin-gonic/gin"
)

// GuardFailure writes the generic response for an authorization failure and
// reports whether err was one. The body never names the mismatched owner.
func GuardFailure(c *gin.Context, err error) bool {
	var authErr *authz.AuthenticationError
	var forbidden *authz.ForbiddenError
	var notFound *authz.NotFoundError

	switch {
	case errors.As(err, &authErr):
		Fail(c, http.StatusUnauthorized, ErrUnauthorized)
	case errors.As(err, &forbidden):
		Fail(c, http.StatusForbidden, ErrForbidden)
	case errors.As(err, &notFound):
		Fail(c, http.StatusNotFound, ErrNotFound)
	default:
		return false
	}
	return true
}
