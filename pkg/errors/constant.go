package errors

import "net/http"

const (
	StatusBadRequest   = http.StatusBadRequest
	StatusUnauthorized = http.StatusUnauthorized
	StatusForbidden    = http.StatusForbidden
	StatusNotFound     = http.StatusNotFound
)

const (
	MessageUnauthorized = "Unauthorized"
	MessageForbidden    = "Forbidden"
	MessageNotFound     = "Not Found"
)
