package shared

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNewAPIError(t *testing.T) {
	err := NewAPIError("test_code", "test message")
	if err.Code != "test_code" {
		t.Errorf("expected code 'test_code', got '%s'", err.Code)
	}
	if err.Message != "test message" {
		t.Errorf("expected message 'test message', got '%s'", err.Message)
	}
	if err.Details != nil {
		t.Errorf("expected nil details, got %v", err.Details)
	}
}

func TestAPIError_WithDetails(t *testing.T) {
	err := NewAPIError("code", "message")
	details := map[string]string{"field": "value"}
	err = err.WithDetails(details)

	if err.Details == nil {
		t.Fatal("expected details to be set")
	}
	d, ok := err.Details.(map[string]string)
	if !ok {
		t.Fatal("expected details to be map[string]string")
	}
	if d["field"] != "value" {
		t.Errorf("expected field 'value', got '%s'", d["field"])
	}
}

func TestAPIError_ToHTTP(t *testing.T) {
	apiErr := NewAPIError("code", "message")
	httpErr := apiErr.ToHTTP(http.StatusBadRequest)

	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, httpErr.Code)
	}
	msg, ok := httpErr.Message.(*APIError)
	if !ok {
		t.Fatal("expected message to be *APIError")
	}
	if msg.Code != "code" {
		t.Errorf("expected code 'code', got '%s'", msg.Code)
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name   string
		err    *echo.HTTPError
		status int
		code   string
	}{
		{"bad request", BadRequest("bad", "bad request"), http.StatusBadRequest, "bad"},
		{"unauthorized", Unauthorized("auth", "unauthorized"), http.StatusUnauthorized, "auth"},
		{"forbidden", Forbidden("forbid", "forbidden"), http.StatusForbidden, "forbid"},
		{"not found", NotFound("notfound", "not found"), http.StatusNotFound, "notfound"},
		{"conflict", Conflict("conflict", "conflict error"), http.StatusConflict, "conflict"},
		{"internal", InternalError("internal", "internal error"), http.StatusInternalServerError, "internal"},
		{"unavailable", ServiceUnavailable("config_missing", "not configured"), http.StatusServiceUnavailable, "config_missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.Code)
			}
			apiErr, ok := tt.err.Message.(*APIError)
			if !ok {
				t.Fatal("expected message to be *APIError")
			}
			if apiErr.Code != tt.code {
				t.Errorf("expected code '%s', got '%s'", tt.code, apiErr.Code)
			}
		})
	}
}
