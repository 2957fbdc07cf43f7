package dto

import "net/http"

// Error code constants
// Format: ERR_<CATEGORY>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeInvalidInput is used for malformed or ill-typed input
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeValidation is used for adjustment rule violations
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when an item or batch is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeBatchDeleted is used when the target batch has been deleted
	ErrCodeBatchDeleted = "ERR_BATCH_DELETED"
)

// Business rule error codes
const (
	// ErrCodeInsufficientStock is used when eligible stock cannot cover a request
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeConcurrencyExhausted is used when a commit lost every optimistic retry
	ErrCodeConcurrencyExhausted = "ERR_CONCURRENCY_EXHAUSTED"
)

// Infrastructure error codes
const (
	// ErrCodeStoreUnavailable is used when the backing store cannot be reached
	ErrCodeStoreUnavailable = "ERR_STORE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeBatchDeleted: http.StatusGone,

	ErrCodeInsufficientStock:    http.StatusUnprocessableEntity,
	ErrCodeConcurrencyExhausted: http.StatusConflict,

	ErrCodeStoreUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
