// Package cli — inc.go implements rachet-inc, which prints an increment
// statement for a variable.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/rachet/internal/increment"
	"github.com/shinji-kodama/rachet/internal/model"
)

// incUsage is printed when the variable name is missing.
const incUsage = "Usage: rachet-inc <variable_name> [amount]"

// NewIncCommand creates the rachet-inc root command.
func NewIncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rachet-inc <variable_name> [amount]",
		Short: "Print an increment statement for a variable",
		Long: `rachet-inc prints "<variable_name> += <amount>;" on stdout.

The amount defaults to 1 and must be a 32-bit signed integer. Arguments
after the amount are ignored. The variable name is printed verbatim, even
when it starts with "-"; use "--" to pass a name such as "-v" that is also
an option.

Examples:
  rachet-inc counter        # counter += 1;
  rachet-inc counter 5      # counter += 5;
  rachet-inc counter -3     # counter += -3;
  rachet-inc -- -v          # -v += 1;`,

		Args: cobra.ArbitraryArgs,

		// Variable names are printed verbatim, so "-x" or "-3" must reach
		// runInc as positional arguments. Global options are recognized by
		// parseIncOptions instead, and only ahead of the variable name.
		DisableFlagParsing: true,

		// Don't dump usage on domain errors; the usage line is printed
		// only for a missing variable name.
		SilenceUsage: true,

		// Errors are printed by Execute.
		SilenceErrors: true,

		Version: versionString(),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInc(cmd, args)
		},
	}

	// Registered so that --help lists them; parsing is done by
	// parseIncOptions.
	bindGlobalFlags(cmd)

	return cmd
}

// incAction is what parseIncOptions asks runInc to do.
type incAction int

const (
	incRun incAction = iota
	incHelp
	incVersion
)

// parseIncOptions consumes the global options that precede the variable
// name and returns the remaining arguments. Option processing stops at the
// first argument that is not a known option, or after "--".
func parseIncOptions(args []string) (incAction, []string) {
	for len(args) > 0 {
		switch args[0] {
		case "-h", "--help":
			return incHelp, nil
		case "--version":
			return incVersion, nil
		case "-v", "--verbose":
			verbose = true
		case "--json":
			jsonOutput = true
		case "--":
			return incRun, args[1:]
		default:
			return incRun, args
		}
		args = args[1:]
	}
	return incRun, args
}

func runInc(cmd *cobra.Command, args []string) error {
	action, args := parseIncOptions(args)
	switch action {
	case incHelp:
		return cmd.Help()
	case incVersion:
		fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cmd.Name(), cmd.Version)
		return nil
	}

	if len(args) < 1 {
		fmt.Fprintln(cmd.ErrOrStderr(), incUsage)
		return model.NewCLIError(model.ExitGeneralError, "missing variable name")
	}
	name := args[0]

	amount := increment.DefaultAmount
	if len(args) > 1 {
		parsed, err := increment.ParseAmount(args[1])
		if err != nil {
			return model.NewCLIError(model.ExitGeneralError, err.Error())
		}
		amount = parsed
	}
	VerboseLog("Incrementing %q by %d", name, amount)

	fmt.Fprintln(cmd.OutOrStdout(), increment.Statement(name, amount))
	return nil
}
