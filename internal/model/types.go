// Package model defines the domain types for the rachet utilities.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Token is a single instruction read by rachet-compiler from stdin.
//
// Example:
//
//	{"command": "inc", "args": ["counter", "2"], "line": 3}
type Token struct {
	// Command is the name of the builtin (e.g. "print") or the external
	// executable in the commands directory.
	Command string `json:"command"`

	// Args are passed to the command verbatim. For "print", only the
	// first element is used.
	Args []string `json:"args"`

	// Line is the source line the token came from, used in diagnostics.
	Line int32 `json:"line"`
}

// String returns a short human-readable form used in verbose output.
// Format: "line N: command arg1 arg2"
func (t Token) String() string {
	if len(t.Args) == 0 {
		return fmt.Sprintf("line %d: %s", t.Line, t.Command)
	}
	return fmt.Sprintf("line %d: %s %s", t.Line, t.Command, strings.Join(t.Args, " "))
}

// ExitCode defines the process exit codes of the rachet binaries.
// These codes allow scripts and CI systems to programmatically determine
// why a run stopped.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred, including
	// usage errors and an empty stdin.
	ExitGeneralError ExitCode = 1

	// ExitInvalidInput indicates the token stream could not be decoded.
	ExitInvalidInput ExitCode = 2

	// ExitCommandsDirNotFound indicates the commands directory is missing
	// or is not a directory.
	ExitCommandsDirNotFound ExitCode = 3

	// ExitUnknownCommand indicates a token named a command that is neither
	// a builtin nor a discovered executable.
	ExitUnknownCommand ExitCode = 4

	// ExitCommandFailed indicates an external command could not be started
	// or exited with a non-zero status.
	ExitCommandFailed ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeOf returns the exit code carried by the outermost CLIError in
// err's chain. Errors without a CLIError map to ExitGeneralError, and a
// nil error maps to ExitSuccess.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	// errors.As stops at the first match, which is the outermost CLIError
	// since wrappers are built from the inside out.
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}
