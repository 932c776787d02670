package dto

import (
	"errors"
	"net/http"
	"strings"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
)

// Resource error codes
const (
	ErrCodeNotFound = "ERR_NOT_FOUND"
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInsufficientStock     = "ERR_INSUFFICIENT_STOCK"
	ErrCodeUnsupportedConversion = "ERR_UNSUPPORTED_CONVERSION"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,

	ErrCodeNotFound: http.StatusNotFound,
	ErrCodeConflict: http.StatusConflict,

	ErrCodeInsufficientStock:     http.StatusUnprocessableEntity,
	ErrCodeUnsupportedConversion: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodes maps domain error codes to the API codes above
var domainErrorCodes = map[string]string{
	shared.ErrNotFound.Code:              ErrCodeNotFound,
	shared.ErrConflict.Code:              ErrCodeConflict,
	shared.ErrInvalidInput.Code:          ErrCodeInvalidInput,
	shared.ErrInsufficientStock.Code:     ErrCodeInsufficientStock,
	shared.ErrUnsupportedConversion.Code: ErrCodeUnsupportedConversion,
	shared.ErrInvalidCredentials.Code:    ErrCodeInvalidCredentials,
	shared.ErrRefreshTokenNotFound.Code:  ErrCodeUnauthorized,
	shared.ErrUnauthorized.Code:          ErrCodeUnauthorized,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Entity validation codes (INVALID_EMAIL, INVALID_SKU, ...) become
// ErrCodeInvalidInput; anything else unknown is returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodes[code]; ok {
		return apiCode
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return code
}

// FromError turns err into a status code and an error response. Domain
// errors keep their message; everything else is reported as an internal
// error without details.
func FromError(err error) (int, Response) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		code := NormalizeErrorCode(de.Code)
		return GetHTTPStatus(code), NewErrorResponse(code, de.Message)
	}
	return http.StatusInternalServerError, NewErrorResponse(ErrCodeInternal, "Internal server error")
}
