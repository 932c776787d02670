package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so wrapped copies and
// freshly built errors compare equal to the sentinels below.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return de.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound              = NewDomainError("NOT_FOUND", "Resource not found")
	ErrConflict              = NewDomainError("CONFLICT", "Resource already exists")
	ErrInvalidInput          = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrPersistence           = NewDomainError("PERSISTENCE_FAILURE", "Persistence operation failed")
	ErrUnitOfWorkFailed      = NewDomainError("UNIT_OF_WORK_FAILED", "Unit of work failed and must be reset")
	ErrUnsupportedConversion = NewDomainError("UNSUPPORTED_CONVERSION", "Unsupported unit conversion")
	ErrInsufficientStock     = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInvalidCredentials    = NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrRefreshTokenNotFound  = NewDomainError("REFRESH_TOKEN_NOT_FOUND", "Refresh token not found")
	ErrUnauthorized          = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
)
