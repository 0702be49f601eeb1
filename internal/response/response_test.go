package response

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestNewCursor(t *testing.T) {
	oldest := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	full := NewCursor(50, 50, oldest)
	if !full.HasMore || full.NextBefore == nil || !full.NextBefore.Equal(oldest) {
		t.Fatalf("full page cursor = %+v", full)
	}

	partial := NewCursor(50, 12, oldest)
	if partial.HasMore || partial.NextBefore != nil {
		t.Fatalf("partial page cursor = %+v", partial)
	}

	empty := NewCursor(0, 0, time.Time{})
	if empty.HasMore {
		t.Fatal("zero limit must not report more pages")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"well formed", "req-0123456789abcdef", true},
		{"missing", "", false},
		{"too short", "abc", false},
		{"log injection", "good-id\nlevel=error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RequestIDMiddleware())
			var seen string
			r.GET("/", func(c *gin.Context) {
				seen = RequestID(c)
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(HeaderRequestID)
			if got == "" || got != seen {
				t.Fatalf("header %q, context %q", got, seen)
			}
			if tt.keep != (got == tt.header) {
				t.Fatalf("kept = %v, want %v (got %q)", got == tt.header, tt.keep, got)
			}
		})
	}
}
