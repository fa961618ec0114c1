package response

const (
	MessageSuccess = "Success"

	DefaultErrorMessage = "Something went wrong"

	ValidationErrorCode = 400
	ValidationErrorMsg  = "Validation failed"

	InternalServerErrorCode = 500
)
