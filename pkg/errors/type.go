package errors

// HTTPError represents an HTTP error with status code and message.
type HTTPError struct {
	Code       int
	Message    string
	StatusCode int
}

// ValidationError represents a single invalid request field.
type ValidationError struct {
	Code     int
	Field    string
	Messages []string
}

// ValidationErrorCollector accumulates validation errors for one request.
type ValidationErrorCollector struct {
	errors []*ValidationError
}
