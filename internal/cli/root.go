// Package cli implements the cobra-based commands for the rachet binaries.
//
// Each binary has its own root command: rachet-compiler (compiler.go, with
// the "commands" subcommand in commands.go) and rachet-inc (inc.go). This
// file holds what they share: global flags, error rendering, exit code
// handling, and verbose logging.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/rachet/internal/model"
)

// Global flag variables shared by both root commands. Only one root
// command runs per process.
var (
	// jsonOutput controls whether errors and listings are formatted as JSON.
	jsonOutput bool

	// verbose enables [verbose] diagnostics on stderr.
	verbose bool

	// logOutput receives verbose diagnostics. It is pointed at the running
	// command's stderr before RunE executes.
	logOutput io.Writer = os.Stderr
)

// Build information, injected from the main packages via ldflags.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// versionString formats the build information for --version.
func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}

// bindGlobalFlags registers --json and --verbose on a root command and
// routes verbose output to the command's stderr.
func bindGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// PersistentPreRun is inherited by subcommands, so "commands" logs to
	// the same stream as the root command. Tests swap stderr via SetErr.
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logOutput = cmd.ErrOrStderr()
	}
}

// Execute runs rootCmd and exits the process with the code carried by
// the returned error. SIGINT cancels the command context, which kills a
// running child process.
func Execute(rootCmd *cobra.Command) {
	// The context reaches exec.CommandContext through cmd.Context(), so
	// Ctrl-C kills the running command's process group.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	// Cobra's own messages are silenced on every root command, so this is
	// the single place errors reach the user.
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	os.Exit(int(model.ExitCodeOf(err)))
}

// reportError renders err on w. CLIError values are split into message and
// underlying detail; other errors are printed as-is.
func reportError(w io.Writer, err error) {
	// Only the outermost CLIError is split. Inner errors are rendered as
	// part of the detail string.
	if cliErr, ok := err.(*model.CLIError); ok {
		printError(w, cliErr.Message, cliErr.Err)
		return
	}
	printError(w, err.Error(), nil)
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		// Structured error output for scripts:
		// {"error": {"message": "...", "detail": "..."}}
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Marshalling a map of strings cannot fail.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	// Human-readable output: "Error: <message>[: <detail>]"
	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
// Lines are prefixed with "[verbose]" so they are easy to filter out of
// forwarded command output.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(logOutput, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
