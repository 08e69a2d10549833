// Package cli — commands.go implements the "rachet-compiler commands"
// subcommand.
//
// It runs the same discovery as a compile and prints the result as a
// text table or, with --json, as a JSON object. It reads nothing from
// stdin and executes nothing.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/rachet/internal/command"
	"github.com/shinji-kodama/rachet/internal/model"
)

// NewCommandsCommand creates the "commands" cobra command. It shares the
// persistent flags of rachet-compiler through flags.
func NewCommandsCommand(flags *compilerFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List executable commands in the commands directory",
		Long: `List every executable the compiler would accept as a command.

The builtin "print" is always available and is not listed.

Examples:
  rachet-compiler commands
  rachet-compiler commands --commands-dir ./bin
  rachet-compiler commands --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommands(cmd, flags)
		},
	}
}

func runCommands(cmd *cobra.Command, flags *compilerFlags) error {
	cfg, err := resolveConfig(cmd, flags)
	if err != nil {
		return err
	}

	registry, err := command.Discover(cfg.CommandsDir)
	if err != nil {
		return model.WrapCLIError(model.ExitCodeOf(err), "discovering commands", err)
	}
	VerboseLog("Found %d commands in %s", registry.Len(), registry.Dir())

	printCommandsResult(cmd.OutOrStdout(), registry)
	return nil
}

// printCommandsResult outputs the registry in text or JSON format,
// depending on the global --json flag.
func printCommandsResult(w io.Writer, registry *command.Registry) {
	if IsJSONOutput() {
		printCommandsResultJSON(w, registry)
	} else {
		printCommandsResultText(w, registry)
	}
}

// commandJSON is the JSON output structure for a single command.
type commandJSON struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// printCommandsResultJSON outputs the registry as
// {"dir": "...", "commands": [{"name": "...", "path": "..."}]}.
func printCommandsResultJSON(w io.Writer, registry *command.Registry) {
	type resultJSON struct {
		Dir      string        `json:"dir"`
		Commands []commandJSON `json:"commands"`
	}

	result := resultJSON{
		Dir: registry.Dir(),
		// Empty slice, not nil, so the output shows [] instead of null.
		Commands: make([]commandJSON, 0, registry.Len()),
	}
	for _, name := range registry.Names() {
		path, _ := registry.Lookup(name)
		result.Commands = append(result.Commands, commandJSON{Name: name, Path: path})
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Fprintln(w, string(data))
}

// printCommandsResultText outputs the registry as an aligned table:
//
//	NAME                 PATH
//	inc                  compiler/commands/inc
func printCommandsResultText(w io.Writer, registry *command.Registry) {
	if registry.Len() == 0 {
		fmt.Fprintf(w, "No executable commands found in '%s'.\n", registry.Dir())
		return
	}

	fmt.Fprintf(w, "%-20s %s\n", "NAME", "PATH")
	for _, name := range registry.Names() {
		path, _ := registry.Lookup(name)
		fmt.Fprintf(w, "%-20s %s\n", name, filepath.ToSlash(path))
	}
}
