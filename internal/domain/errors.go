package domain

import (
	"fmt"
	"time"
)

// Error codes for different failure scenarios
const (
	ErrCodeUnsupportedCondition = "UNSUPPORTED_CONDITION"
	ErrCodeNotApplicable        = "FORMULA_NOT_APPLICABLE"
	ErrCodeComputation          = "FORMULA_COMPUTATION_FAILURE"
	ErrCodeInsufficientData     = "INSUFFICIENT_DATA"
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeStorage              = "STORAGE_ERROR"
	ErrCodeRateLimit            = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternalServer       = "INTERNAL_SERVER_ERROR"
)

// UnsupportedConditionError is returned when a caller requests a condition
// name with no registered formulas. It fails only that condition: sibling
// conditions in the same request still proceed.
type UnsupportedConditionError struct {
	Condition string
}

// Error implements the error interface.
func (e *UnsupportedConditionError) Error() string {
	return fmt.Sprintf("unsupported condition: %s", e.Condition)
}

// NewUnsupportedConditionError creates an UnsupportedConditionError.
func NewUnsupportedConditionError(condition string) *UnsupportedConditionError {
	return &UnsupportedConditionError{Condition: condition}
}

// NotApplicableError signals that a formula does not apply to the supplied
// record (e.g. the Gail model for male patients). It is an explicit typed
// result, not a failure: the aggregator excludes it from the mean and
// preserves the reason for the caller.
type NotApplicableError struct {
	Formula FormulaID
	Reason  string
}

// Error implements the error interface.
func (e *NotApplicableError) Error() string {
	return fmt.Sprintf("formula %s not applicable: %s", e.Formula, e.Reason)
}

// NewNotApplicableError creates a NotApplicableError.
func NewNotApplicableError(formula FormulaID, reason string) *NotApplicableError {
	return &NotApplicableError{Formula: formula, Reason: reason}
}

// ComputationError wraps an unexpected failure inside a formula. It is caught
// at the per-formula boundary and excluded from aggregation; it never aborts
// sibling formulas or other conditions.
type ComputationError struct {
	Formula FormulaID
	Cause   error
}

// Error implements the error interface.
func (e *ComputationError) Error() string {
	return fmt.Sprintf("formula %s computation failed: %v", e.Formula, e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ComputationError) Unwrap() error {
	return e.Cause
}

// NewComputationError creates a ComputationError.
func NewComputationError(formula FormulaID, cause error) *ComputationError {
	return &ComputationError{Formula: formula, Cause: cause}
}

// APIError represents a structured error response on the HTTP boundary.
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAPIError creates a new APIError with timestamp.
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}
