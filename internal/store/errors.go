package store

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound is returned by lookups and mutations on unknown IDs.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition is returned when a status change is not the next
	// step in the fixed sequence, or the order is already terminal.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrStoreClosed is returned once Close has been called.
	ErrStoreClosed = errors.New("order store is closed")
)

// ValidationError reports a malformed PlaceOrder request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
