package model

import (
	"fmt"
	"time"
)

// ExitCode defines the standard CLI exit codes. These codes let scripts
// and CI systems programmatically distinguish outcomes of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitBadConfig indicates the pipeline configuration file was not
	// found or did not validate.
	ExitBadConfig ExitCode = 2

	// ExitPipelineFailed indicates a stage failed during execution.
	ExitPipelineFailed ExitCode = 3

	// ExitTerminated indicates a stage deliberately terminated the run
	// (for example because an item was marked with an error status).
	ExitTerminated ExitCode = 4
)

// CLIError is an error carrying an exit code, so the CLI layer can
// translate domain failures into process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// RunSummary describes the outcome of a single pipeline execution, for
// rendering by the run command.
type RunSummary struct {
	// Pipeline is the executed pipeline's ID.
	Pipeline string `json:"pipeline"`

	// Stages is the number of stages that were configured.
	Stages int `json:"stages"`

	// Items is the number of items in the final collection.
	Items int `json:"items"`

	// Duration is the wall-clock execution time.
	Duration time.Duration `json:"-"`

	// DurationSeconds mirrors Duration for JSON output.
	DurationSeconds float64 `json:"durationSeconds"`
}

// StageSummary describes one resolved stage of a pipeline definition, for
// rendering by the inspect command.
type StageSummary struct {
	// Index is the stage's position in the pipeline, counting from 0.
	Index int `json:"index"`

	// ID is the stage's resolved identifier.
	ID string `json:"id"`

	// Type is the configured stage type name.
	Type string `json:"type"`
}
