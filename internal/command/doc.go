// Package command discovers external commands and executes tokens for
// rachet-compiler.
//
// Discovery scans a single commands directory. On Windows a file
// qualifies when its name ends in ".exe"; elsewhere any execute bit must
// be set. The file name (minus ".exe") is the command name.
//
// Execution is strictly sequential. The builtin "print" is handled in
// process; every other command is run via os/exec with its output
// captured and forwarded once the child exits. The first failure stops
// the run; nothing is retried.
package command
