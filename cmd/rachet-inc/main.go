// Package main is the entry point for rachet-inc, which prints an
// increment statement such as "counter += 1;".
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

	cli.Execute(cli.NewIncCommand())
}
