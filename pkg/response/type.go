package response

import (
	"cicd-dashboard/pkg/errors"
)

// Resp is the JSON envelope returned by every API endpoint.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

// ErrorMapping maps sentinel errors to HTTP errors for a handler.
type ErrorMapping map[error]*errors.HTTPError
