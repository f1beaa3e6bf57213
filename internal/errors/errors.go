// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrDivisionByZero  = errors.New("division by zero")
	ErrEmptyRegistry   = errors.New("no stocks registered")
	ErrSymbolNotFound  = errors.New("symbol not found")
	ErrConfigInvalid   = errors.New("invalid configuration")
	ErrInputValidation = errors.New("input validation failed")
)

// MetricError reports a financial metric that could not be computed for a stock.
type MetricError struct {
	Metric string
	Symbol string
	Reason string
	Err    error
}

func (e *MetricError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("metric error [%s] %s: %s: %v", e.Metric, e.Symbol, e.Reason, e.Err)
	}
	return fmt.Sprintf("metric error [%s] %s: %s", e.Metric, e.Symbol, e.Reason)
}

func (e *MetricError) Unwrap() error {
	return e.Err
}

// NewMetricError creates a new MetricError.
func NewMetricError(metric, symbol, reason string, err error) *MetricError {
	return &MetricError{
		Metric: metric,
		Symbol: symbol,
		Reason: reason,
		Err:    err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
