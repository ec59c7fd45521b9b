package usecase

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both absent rows and rows owned by another user. The two
// cases are collapsed deliberately so non-owners cannot probe for existence.
var ErrNotFound = errors.New("resource not found or access denied")

// StateError rejects an operation because the entity is in the wrong status.
// The resolved status travels with the error so the API can return it and the
// client can reconcile without a follow-up read.
type StateError struct {
	Status  string
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

func newStateError(status, format string, args ...any) *StateError {
	return &StateError{
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

// CooldownError rejects a cancellation attempted before the minimum wait time
// elapsed. Remaining is whole seconds, rounded up, for client countdowns.
type CooldownError struct {
	Remaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %d more seconds before cancelling this payment", e.Remaining)
}

// ConflictError rejects a request that contradicts current data without being
// a pure status-guard failure (amount mismatch, duplicate pending payment).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
