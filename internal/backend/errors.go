package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrScriptNotFound is returned when a script-file invocation names a
	// script that does not exist. No process is started.
	ErrScriptNotFound = errors.New("script not found")

	// ErrInterpreterNotFound is returned when the interpreter cannot be
	// resolved on PATH.
	ErrInterpreterNotFound = errors.New("interpreter not found")

	// ErrNotConfirmed is returned for a mutating invocation without an
	// approval covering it.
	ErrNotConfirmed = errors.New("invocation not confirmed")

	// ErrUnknownOperation is returned for an invocation whose operation is
	// not one the console offers. No process is started.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrCancelled is returned when the run was cancelled or timed out.
	ErrCancelled = errors.New("invocation cancelled")
)

// ExitError reports a nonzero exit status from the backend.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("backend exited with code %d", e.Code)
}
