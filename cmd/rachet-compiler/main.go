// Package main is the entry point for rachet-compiler.
//
// The binary reads a JSON token stream from stdin and executes it. All
// functionality lives in internal/cli; this file only injects build-time
// version information (set via ldflags) and runs the root command.
package main

import (
	"github.com/shinji-kodama/rachet/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewCompilerCommand())
}
