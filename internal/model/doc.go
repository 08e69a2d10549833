// Package model defines the domain types and value objects shared by the
// rachet command-line utilities.
//
// This package contains pure data structures with no external dependencies.
// Tokens are transient: they are decoded from stdin, executed once, and
// dropped. There is no persistent state between invocations.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
