// Package ledgererror holds the error taxonomy shared by the ledger, the
// reducer and the storage layer.
package ledgererror

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a record or action that failed field checks.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a lookup by identity that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate marks an attempt to add something that already exists.
	ErrDuplicate = errors.New("already exists")
	// ErrInUse marks an attempt to delete a person still referenced by a transaction.
	ErrInUse = errors.New("still referenced")
	// ErrNegativeBalance marks an action refused by the negative balance policy.
	ErrNegativeBalance = errors.New("negative balance")
	// ErrUnauthorized marks a failed allow-list check.
	ErrUnauthorized = errors.New("invalid username or password")
)

// ValidationError represents a record that is missing a field its type requires,
// or carries a field value outside its domain.
type ValidationError struct {
	Type   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s transaction: %s %s", e.Type, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// StorageError represents a failed read or write against the key-value store.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ImportError represents a backup file that could not be applied. Nothing from
// the file is applied when this is returned.
type ImportError struct {
	Source string
	Err    error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import from %s failed: %v", e.Source, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Shortfall describes one person/currency pair that would end below zero.
type Shortfall struct {
	Person   string
	Currency string
	Balance  string
}

// PolicyError is returned when the negative balance policy refuses an action.
type PolicyError struct {
	Policy     string
	Shortfalls []Shortfall
}

func (e *PolicyError) Error() string {
	if len(e.Shortfalls) == 0 {
		return fmt.Sprintf("refused by %s policy", e.Policy)
	}
	s := e.Shortfalls[0]
	msg := fmt.Sprintf("refused by %s policy: %s would hold %s %s", e.Policy, s.Person, s.Balance, s.Currency)
	if len(e.Shortfalls) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(e.Shortfalls)-1)
	}
	return msg
}

func (e *PolicyError) Unwrap() error {
	return ErrNegativeBalance
}
