package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Engine error codes, used by callers to translate errors into their
// own presentation (HTTP status, UI message key, ...).
const (
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodeConcurrencyExhausted = "CONCURRENCY_EXHAUSTED"
	CodeStoreUnavailable     = "STORE_UNAVAILABLE"
	CodeValidation           = "VALIDATION_FAILED"
	CodeBatchDeleted         = "BATCH_DELETED"
	CodeItemNotFound         = "ITEM_NOT_FOUND"
	CodeInvalidRequest       = "INVALID_REQUEST"
)

// Validation rule identifiers carried by ValidationError so callers can
// tell exactly which adjustment rule was violated.
const (
	RuleNegativeResult  = "negative_result"
	RuleMissingReason   = "missing_reason"
	RuleCeilingExceeded = "ceiling_exceeded"
	RuleZeroDelta       = "zero_delta"
	RuleDamagePositive  = "damage_positive_delta"
)

// InsufficientStockError means the requested quantity exceeds the total
// available across eligible batches. Recoverable by the caller.
type InsufficientStockError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available=%s requested=%s", e.Available, e.Requested)
}

// Code returns the engine error code
func (e *InsufficientStockError) Code() string { return CodeInsufficientStock }

// ConcurrencyExhaustedError means conditional updates kept conflicting
// until the retry budget ran out. Not a data-integrity problem; the
// caller may resubmit.
type ConcurrencyExhaustedError struct {
	Attempts int
}

func (e *ConcurrencyExhaustedError) Error() string {
	return fmt.Sprintf("conditional update conflicts exhausted %d attempts", e.Attempts)
}

// Code returns the engine error code
func (e *ConcurrencyExhaustedError) Code() string { return CodeConcurrencyExhausted }

// StoreUnavailableError wraps an I/O or deadline failure talking to the
// batch store, distinct from version conflicts.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("batch store unavailable during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying store error
func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// Code returns the engine error code
func (e *StoreUnavailableError) Code() string { return CodeStoreUnavailable }

// ValidationError reports which adjustment rule an AdjustmentRequest
// violated. Input errors; never retried automatically.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("adjustment validation failed (%s): %s", e.Rule, e.Message)
}

// Code returns the engine error code
func (e *ValidationError) Code() string { return CodeValidation }

// BatchDeletedError means the referenced batch was soft deleted
type BatchDeletedError struct {
	BatchID uuid.UUID
}

func (e *BatchDeletedError) Error() string {
	return fmt.Sprintf("batch %s is deleted", e.BatchID)
}

// Code returns the engine error code
func (e *BatchDeletedError) Code() string { return CodeBatchDeleted }

// ItemNotFoundError means the item has never had stock recorded at all.
// An empty batch list for a known item is a valid zero-stock result,
// not this error.
type ItemNotFoundError struct {
	ItemID uuid.UUID
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %s is unknown to the stock ledger", e.ItemID)
}

// Code returns the engine error code
func (e *ItemNotFoundError) Code() string { return CodeItemNotFound }

// InvalidRequestError marks a malformed request (negative quantity,
// unknown policy, missing identifiers). A caller programming error.
type InvalidRequestError struct {
	Message string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Message
}

// Code returns the engine error code
func (e *InvalidRequestError) Code() string { return CodeInvalidRequest }
