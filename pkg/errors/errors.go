package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// NewHTTPError returns a new HTTPError for the given status code. The
// error code mirrors the status code. If statusCode is 0, it defaults to
// http.StatusBadRequest.
func NewHTTPError(statusCode int, message string) *HTTPError {
	if statusCode == 0 {
		statusCode = http.StatusBadRequest
	}
	return &HTTPError{
		Code:       statusCode,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewUnauthorizedHTTPError returns a 401 Unauthorized error.
func NewUnauthorizedHTTPError() *HTTPError {
	return &HTTPError{
		Code:       401,
		Message:    MessageUnauthorized,
		StatusCode: StatusUnauthorized,
	}
}

// NewNotFoundHTTPError returns a 404 Not Found error.
func NewNotFoundHTTPError() *HTTPError {
	return &HTTPError{
		Code:       404,
		Message:    MessageNotFound,
		StatusCode: StatusNotFound,
	}
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error.
func NewValidationError(code int, field string, messages ...string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Messages: messages}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, strings.Join(e.Messages, ", "))
}

// NewValidationErrorCollector creates a new validation error collector.
func NewValidationErrorCollector() *ValidationErrorCollector {
	return &ValidationErrorCollector{errors: make([]*ValidationError, 0)}
}

func (c *ValidationErrorCollector) Add(err *ValidationError) *ValidationErrorCollector {
	c.errors = append(c.errors, err)
	return c
}

func (c *ValidationErrorCollector) HasError() bool {
	return len(c.errors) > 0
}

func (c *ValidationErrorCollector) Errors() []*ValidationError {
	return c.errors
}

func (c *ValidationErrorCollector) Error() string {
	var msgs []string
	for _, err := range c.errors {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, ", ")
}
