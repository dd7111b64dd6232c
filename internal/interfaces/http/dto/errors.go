package dto

import (
	"net/http"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Resource and state error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Upstream error codes
const (
	// ErrCodeLookupFailed is used when the postal code lookup is unreachable
	ErrCodeLookupFailed = "ERR_LOOKUP_FAILED"
	// ErrCodeSubmissionFailed is used when the order backend fails or rejects
	ErrCodeSubmissionFailed = "ERR_SUBMISSION_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeInvalidState: http.StatusConflict,

	ErrCodeLookupFailed:     http.StatusBadGateway,
	ErrCodeSubmissionFailed: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// KindErrorCode maps a domain error kind to its API error code. Persistence
// warnings never reach callers and fall through to ERR_INTERNAL.
var KindErrorCode = map[shared.ErrorKind]string{
	shared.KindValidation:   ErrCodeValidation,
	shared.KindNotFound:     ErrCodeNotFound,
	shared.KindInvalidState: ErrCodeInvalidState,
	shared.KindLookup:       ErrCodeLookupFailed,
	shared.KindSubmission:   ErrCodeSubmissionFailed,
}

// CodeForKind returns the API error code for a domain error kind
func CodeForKind(kind shared.ErrorKind) string {
	if code, ok := KindErrorCode[kind]; ok {
		return code
	}
	return ErrCodeInternal
}

// StatusForKind returns the HTTP status for a domain error kind
func StatusForKind(kind shared.ErrorKind) int {
	return GetHTTPStatus(CodeForKind(kind))
}
