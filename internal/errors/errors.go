// Package errors provides structured error handling for the semversioner CLI.
// Errors are categorized so the CLI layer can map them to exit codes and
// user-facing messages without inspecting message text.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the kind of error that occurred.
type Category int

const (
	// UserInput errors are recoverable and caused by what the user asked for:
	// releasing with nothing pending, mixing stable and prerelease changes,
	// an unparseable custom template, and similar.
	UserInput Category = iota
	// IO errors are fatal filesystem failures (permission denied, disk full).
	// They are never retried and propagate unchanged.
	IO
	// Integrity errors indicate on-disk state that should not occur: malformed
	// JSON in a stored record, or a release filename that is not a version.
	Integrity
)

// String returns a human-readable name for the category.
func (c Category) String() string {
	switch c {
	case UserInput:
		return "Input Error"
	case IO:
		return "I/O Error"
	case Integrity:
		return "Integrity Error"
	default:
		return "Error"
	}
}

// ErrNoChangesets signals that no changeset files are pending. It doubles as a
// normal state (status reporting) and a failure (releasing); callers branch
// with errors.Is or propagate as they need.
var ErrNoChangesets = stderrors.New("no changeset files found")

// ErrMixedChangesets signals a pending batch that mixes stable and prerelease
// changes, which has no well-defined next version.
var ErrMixedChangesets = stderrors.New("cannot mix stable and prerelease changesets in one release")

// Error is a categorized error, optionally wrapping a cause.
type Error struct {
	Category Category
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewUserInputError creates a recoverable user-input error.
func NewUserInputError(format string, args ...any) *Error {
	return &Error{Category: UserInput, Message: fmt.Sprintf(format, args...)}
}

// NewIntegrityError creates an error for on-disk state that violates the
// storage format assumptions.
func NewIntegrityError(format string, args ...any) *Error {
	return &Error{Category: Integrity, Message: fmt.Sprintf(format, args...)}
}

// WrapIO wraps a filesystem error. Returns nil if err is nil.
func WrapIO(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Category: IO, Message: message, Err: err}
}

// WrapIntegrity wraps a parse error found in stored state. Returns nil if err
// is nil.
func WrapIntegrity(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Category: Integrity, Message: message, Err: err}
}

// CategoryOf returns the category of err, or false if err carries no category.
func CategoryOf(err error) (Category, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Category, true
	}
	return 0, false
}
