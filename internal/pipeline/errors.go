package pipeline

import (
	"errors"
	"fmt"
)

// StageError attributes a failure to the stage that produced it. Pipelines
// wrap every error returned by a stage in a StageError before propagating.
type StageError struct {
	// StageID identifies the failing stage.
	StageID string

	// Err is the underlying error returned by the stage.
	Err error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q: %v", e.StageID, e.Err)
}

// Unwrap returns the underlying stage error for errors.Is/As.
func (e *StageError) Unwrap() error {
	return e.Err
}

// TerminationError is returned by stages that deliberately abort the run,
// typically because an item was marked with metadata that makes continuing
// pointless or unsafe.
type TerminationError struct {
	// Reason describes why processing was terminated.
	Reason string
}

// Error implements the error interface.
func (e *TerminationError) Error() string {
	return "pipeline terminated: " + e.Reason
}

// IsTermination reports whether err (or anything it wraps) is a
// TerminationError.
func IsTermination(err error) bool {
	var te *TerminationError
	return errors.As(err, &te)
}
