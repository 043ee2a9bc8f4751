package cli

import (
	stderrors "errors"

	"github.com/raveheart1/semversioner/internal/errors"
)

// Exit codes for the semversioner CLI. CI pipelines branch on these, so the
// mapping is part of the tool's contract.
const (
	// ExitSuccess indicates successful command execution.
	ExitSuccess = 0

	// ExitUserError indicates a recoverable user-input problem: nothing to
	// release, mixed stable/prerelease changesets, bad flags.
	ExitUserError = 1

	// ExitIOError indicates a fatal filesystem failure.
	ExitIOError = 2

	// ExitIntegrityError indicates corrupted on-disk state, such as a release
	// file that does not parse.
	ExitIntegrityError = 3
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if stderrors.Is(err, errors.ErrNoChangesets) || stderrors.Is(err, errors.ErrMixedChangesets) {
		return ExitUserError
	}
	if cat, ok := errors.CategoryOf(err); ok {
		switch cat {
		case errors.IO:
			return ExitIOError
		case errors.Integrity:
			return ExitIntegrityError
		}
	}
	return ExitUserError
}
