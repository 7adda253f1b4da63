package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoActiveOrders    = errors.New("table has no active orders")
	ErrDuplicateCode     = errors.New("table code already in use")
)

// ValidationError reports a request field rejected before any database or
// network work.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
