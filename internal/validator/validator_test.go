package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	Setup()
	os.Exit(m.Run())
}

func TestBind_BankDetails(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			name: "valid",
			body: `{"account_holder_name":"Asha Rao","bank_name":"State Bank","account_number":"123456789012","ifsc_code":"SBIN0001234"}`,
		},
		{
			name:      "short account number",
			body:      `{"account_holder_name":"Asha Rao","bank_name":"State Bank","account_number":"1234","ifsc_code":"SBIN0001234"}`,
			wantField: "account_number",
		},
		{
			name:      "letters in account number",
			body:      `{"account_holder_name":"Asha Rao","bank_name":"State Bank","account_number":"12345abc9012","ifsc_code":"SBIN0001234"}`,
			wantField: "account_number",
		},
		{
			name:      "bad ifsc",
			body:      `{"account_holder_name":"Asha Rao","bank_name":"State Bank","account_number":"123456789012","ifsc_code":"SBIN1001234"}`,
			wantField: "ifsc_code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req model.BankDetailsRequest
			fields := Bind(c, &req)
			if tt.wantField == "" {
				if fields != nil {
					t.Fatalf("unexpected errors: %v", fields)
				}
				return
			}
			if _, ok := fields[tt.wantField]; !ok {
				t.Fatalf("want error on %s, got %v", tt.wantField, fields)
			}
		})
	}
}

func TestBind_MalformedJSON(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"text":`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.AnalyzeTextRequest
	fields := Bind(c, &req)
	if _, ok := fields["detail"]; !ok {
		t.Fatalf("want detail error, got %v", fields)
	}
}
