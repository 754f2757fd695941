package services

import (
	"errors"
	"fmt"
)

// Sentinel errors let callers (and the HTTP error handler) branch on the
// failure class while the wrapped detail names the offending record.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
)

// DomainError wraps a sentinel with human-readable detail.
type DomainError struct {
	Err     error
	Details string
}

func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func notFound(format string, args ...any) error {
	return &DomainError{Err: ErrNotFound, Details: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &DomainError{Err: ErrConflict, Details: fmt.Sprintf(format, args...)}
}

// Forbidden reports an action the caller's role does not allow.
func Forbidden(details string) error {
	return &DomainError{Err: ErrForbidden, Details: details}
}

// Actor is the resolved auth context every operation receives.
type Actor struct {
	UserID string
	Role   string // "Admin" or "Sales User"
	Name   string
}

func (a Actor) IsAdmin() bool { return a.Role == "Admin" }
