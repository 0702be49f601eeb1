package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Data     any        `json:"data"`
	Error    *ErrorBody `json:"error,omitempty"`
	Cursor   *Cursor    `json:"cursor,omitempty"`
	Metadata Metadata   `json:"metadata"`
}

// ErrorBody carries a stable code and a generic message. Fields is only set
// for validation failures.
type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Cursor describes a keyset page over a time-ordered list. NextBefore is the
// value to pass as ?before= for the next older page.
type Cursor struct {
	Limit      int        `json:"limit"`
	HasMore    bool       `json:"has_more"`
	NextBefore *time.Time `json:"next_before,omitempty"`
}

// NewCursor builds the cursor for a page of n items requested with limit,
// where oldest is the timestamp of the last item in the page.
func NewCursor(limit, n int, oldest time.Time) *Cursor {
	cur := &Cursor{Limit: limit, HasMore: n >= limit && limit > 0}
	if cur.HasMore {
		cur.NextBefore = &oldest
	}
	return cur
}

// Metadata includes request tracing and timing.
type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ─── Builders ───────────────────────────────────────────────────────────────

// Success sends a successful JSON response with the given status code and data.
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, Response{
		Data:     data,
		Metadata: buildMetadata(c),
	})
}

// SuccessWithCursor sends one page of a keyset-paginated list.
func SuccessWithCursor(c *gin.Context, statusCode int, data any, cursor *Cursor) {
	c.JSON(statusCode, Response{
		Data:     data,
		Cursor:   cursor,
		Metadata: buildMetadata(c),
	})
}

// Fail sends an error response with an error code and no field-level details.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, failure(c, code, nil))
}

// FailWithFields sends a validation failure with per-field messages.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, failure(c, code, fields))
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, failure(c, code, nil))
}

func failure(c *gin.Context, code ErrCode, fields map[string]string) Response {
	return Response{
		Error:    &ErrorBody{Code: code, Message: GetMessage(code), Fields: fields},
		Metadata: buildMetadata(c),
	}
}

func buildMetadata(c *gin.Context) Metadata {
	return Metadata{
		RequestID: RequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
