package domain

import (
	"errors"
	"fmt"
)

var (
	// Entry errors
	ErrEntryNotFound = errors.New("entry not found")

	// ErrValidation is the cause of every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrReconciliationIncomplete marks a mutation that was stored but whose
	// follow-up reconciliation pass did not finish.
	ErrReconciliationIncomplete = errors.New("reconciliation incomplete")
)

// Store operations reported in StoreError.
const (
	OpList          = "list"
	OpInsert        = "insert"
	OpUpdate        = "update"
	OpUpdateBalance = "update_balance"
	OpDelete        = "delete"
)

// ValidationError reports caller input that was rejected before any store call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StoreError reports a failed Store Adapter call.
type StoreError struct {
	Op  string
	ID  string // empty for operations not bound to a row
	Err error
}

func (e *StoreError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.ID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
