package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

// Pricing taxonomy. These are returned as values by the engine packages and
// surfaced to callers with their message intact.
const (
	ErrTypeInvalidSettlement     ErrorType = "INVALID_SETTLEMENT"
	ErrTypeUnpriceableDate       ErrorType = "UNPRICEABLE_DATE"
	ErrTypeInsufficientCurveData ErrorType = "INSUFFICIENT_CURVE_DATA"
	ErrTypeMissingBaseRate       ErrorType = "MISSING_BASE_RATE"
	ErrTypeInvalidAmount         ErrorType = "INVALID_AMOUNT"
)

// Infrastructure types.
const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err carries an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}

// NewInvalidSettlementError creates a settlement-before-spot error
func NewInvalidSettlementError(message string) *AppError {
	return NewAppError(ErrTypeInvalidSettlement, message, nil)
}

// NewUnpriceableDateError creates an error for dates the curve cannot price
func NewUnpriceableDateError(message string) *AppError {
	return NewAppError(ErrTypeUnpriceableDate, message, nil)
}

// NewInsufficientCurveDataError creates an error for curves with too few points
func NewInsufficientCurveDataError(message string) *AppError {
	return NewAppError(ErrTypeInsufficientCurveData, message, nil)
}

// NewMissingBaseRateError creates an error for a missing market base rate
func NewMissingBaseRateError(message string) *AppError {
	return NewAppError(ErrTypeMissingBaseRate, message, nil)
}

// NewInvalidAmountError creates an error for amounts failing currency rules
func NewInvalidAmountError(message string) *AppError {
	return NewAppError(ErrTypeInvalidAmount, message, nil)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewCurrencyPairNotFoundError reports an unknown pair ID or symbol. It wraps
// ErrCurrencyPairNotFound so the HTTP layer answers with that error code.
func NewCurrencyPairNotFoundError(idOrSymbol string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("currency pair %s not found", idOrSymbol), ErrCurrencyPairNotFound).
		WithContext("id", idOrSymbol)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
