package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doerhub/doerhub-backend/internal/authz"
	"github.com/gin-gonic/gin"
)

func TestGuardFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		handled  bool
		status   int
		wantCode ErrCode
	}{
		{"authentication", &authz.AuthenticationError{Reason: "no session"}, true, http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", &authz.ForbiddenError{Resource: authz.ResourceProject, ID: "p-1"}, true, http.StatusForbidden, ErrForbidden},
		{"wrapped not found", fmt.Errorf("load: %w", &authz.NotFoundError{Resource: authz.ResourceProfile, ID: "x"}), true, http.StatusNotFound, ErrNotFound},
		{"other", errors.New("db down"), false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			if got := GuardFailure(c, tt.err); got != tt.handled {
				t.Fatalf("handled = %v, want %v", got, tt.handled)
			}
			if !tt.handled {
				return
			}
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}

			var body Response
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error == nil || body.Error.Code != tt.wantCode {
				t.Fatalf("error body = %+v, want code %s", body.Error, tt.wantCode)
			}
			if strings.Contains(w.Body.String(), "p-1") {
				t.Error("response leaks the resource id")
			}
		})
	}
}
