// Package apperror provides typed application errors with a machine-readable kind.
//
// Package-level sentinels are *Error values; errors built per call (policy
// violations carrying numbers) keep a link to their sentinel so errors.Is keeps
// working through fmt.Errorf("%w") chains.
package apperror

import (
	"errors"
	"fmt"
	"math"
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindAdvanceNotice      Kind = "policy_advance_notice"
	KindCancellationWindow Kind = "policy_cancellation_window"
	KindConflict           Kind = "conflict"
	KindNotFound           Kind = "not_found"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindInternal           Kind = "internal"
)

// Error is an application error with a kind and an optional policy payload.
type Error struct {
	Kind           Kind
	Message        string
	RequiredHours  int
	RemainingHours int

	sentinel *Error
}

// New creates a sentinel error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches the error itself or the sentinel it was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || (e.sentinel != nil && e.sentinel == t)
}

// HasPolicyPayload reports whether the error carries threshold numbers.
func (e *Error) HasPolicyPayload() bool {
	return e.Kind == KindAdvanceNotice || e.Kind == KindCancellationWindow
}

// AdvanceNotice builds a booking advance notice violation derived from sentinel.
func AdvanceNotice(sentinel *Error, requiredHours int, hoursUntil float64) *Error {
	remaining := RemainingHours(hoursUntil)
	return &Error{
		Kind: KindAdvanceNotice,
		Message: fmt.Sprintf("Bookings must be made at least %d hours in advance. Only %d hours remaining.",
			requiredHours, remaining),
		RequiredHours:  requiredHours,
		RemainingHours: remaining,
		sentinel:       sentinel,
	}
}

// CancellationWindow builds a cancellation window violation derived from sentinel.
func CancellationWindow(sentinel *Error, requiredHours int, hoursUntil float64) *Error {
	remaining := RemainingHours(hoursUntil)
	return &Error{
		Kind: KindCancellationWindow,
		Message: fmt.Sprintf("Cancellation must be made at least %d hours in advance. Only %d hours remaining.",
			requiredHours, remaining),
		RequiredHours:  requiredHours,
		RemainingHours: remaining,
		sentinel:       sentinel,
	}
}

// RemainingHours rounds hours to the nearest integer, never below zero.
func RemainingHours(hoursUntil float64) int {
	return int(math.Max(0, math.Round(hoursUntil)))
}

// As extracts the first *Error in the chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of the first *Error in the chain, KindInternal otherwise.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}
