package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services
var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTradeAlreadyClosed  = errors.New("trade already closed")
)

// ValidationError is a field-level input error. Submission operations fail
// fast with one of these before any store write is attempted.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
