package errors

import (
	"net/http"
	"testing"
)

func TestNewHTTPError(t *testing.T) {
	e := NewHTTPError(http.StatusServiceUnavailable, "authentication is not configured")

	if e.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want %d", e.StatusCode, http.StatusServiceUnavailable)
	}
	if e.Code != http.StatusServiceUnavailable {
		t.Errorf("Code = %d, want it to mirror the status code", e.Code)
	}
	if e.Error() != "authentication is not configured" {
		t.Errorf("Error() = %q", e.Error())
	}
}

func TestNewHTTPErrorDefaultsToBadRequest(t *testing.T) {
	e := NewHTTPError(0, "invalid input")
	if e.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want %d", e.StatusCode, http.StatusBadRequest)
	}
	if e.Code != http.StatusBadRequest {
		t.Errorf("Code = %d, want %d", e.Code, http.StatusBadRequest)
	}
}
