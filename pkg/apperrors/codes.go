package apperrors

// ErrorCode identifies a class of failure in API responses.
type ErrorCode string

const (
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	CodeNotFound ErrorCode = "NOT_FOUND"
	CodeConflict ErrorCode = "CONFLICT"

	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
)
