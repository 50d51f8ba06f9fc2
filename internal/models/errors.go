package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an order, menu item or ingredient
	// lookup by id does not match anything.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when an order status change is
	// not reachable from the current status. The order is left unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidDiscountCode is returned when a discount code is not
	// present in the registry. Checkout proceeds without a discount.
	ErrInvalidDiscountCode = errors.New("invalid discount code")

	// ErrForbidden is returned when a caller without admin capability
	// attempts an admin-only operation.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports a rejected input field. Checkout and admin
// writes fail with a ValidationError before any state is mutated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
