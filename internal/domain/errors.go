package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every *Error wraps exactly one of them so callers can
// classify failures with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Error is a classified domain failure. Count carries the number of blocking
// dependents for delete guards and is zero otherwise.
type Error struct {
	Kind   error
	Detail string
	Count  int
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Detail: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Detail: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Detail: fmt.Sprintf(format, args...)}
}

func InvalidOperation(format string, args ...any) error {
	return &Error{Kind: ErrInvalidOperation, Detail: fmt.Sprintf(format, args...)}
}

// Blocked reports a delete refused because count dependents still reference
// the target.
func Blocked(count int, format string, args ...any) error {
	return &Error{Kind: ErrInvalidOperation, Detail: fmt.Sprintf(format, args...), Count: count}
}

// CountOf extracts the blocking count from err, or 0.
func CountOf(err error) int {
	var de *Error
	if errors.As(err, &de) {
		return de.Count
	}
	return 0
}
