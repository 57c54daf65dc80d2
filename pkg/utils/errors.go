package utils

// Error codes returned in API responses.
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeUpstream     = "UPSTREAM_UNAVAILABLE"
)

// AppError is the error payload shape of every non-success response.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewAppError builds an AppError. Details beyond the first are ignored.
func NewAppError(code, message string, details ...string) *AppError {
	e := &AppError{Code: code, Message: message}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

func (e *AppError) Error() string {
	return e.Message
}
