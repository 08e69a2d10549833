package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/rachet/internal/command"
	"github.com/shinji-kodama/rachet/internal/config"
	"github.com/shinji-kodama/rachet/internal/model"
	"github.com/shinji-kodama/rachet/internal/token"
)

// compilerFlags holds the flag values shared by rachet-compiler and its
// subcommands. They are bound as persistent flags on the root command.
type compilerFlags struct {
	// configPath selects a YAML or TOML config file.
	configPath string

	// commandsDir overrides the configured commands directory.
	commandsDir string

	// timeout overrides the configured per-command timeout.
	timeout string
}

// NewCompilerCommand creates the rachet-compiler root command.
//
// The root command itself reads tokens from stdin and executes them. The
// "commands" subcommand lists what discovery finds.
func NewCompilerCommand() *cobra.Command {
	flags := &compilerFlags{}

	rootCmd := &cobra.Command{
		Use:   "rachet-compiler",
		Short: "Execute a rachet token stream read from stdin",
		Long: `rachet-compiler reads a JSON array of tokens from stdin and runs them in order.

Each token has the form {"command": "...", "args": [...], "line": N}.
The builtin "print" writes its first argument to stdout. Any other command
is looked up in the commands directory and executed with the token's
arguments; its stdout and stderr are forwarded. The first failure stops
the run.

Examples:
  echo '[{"command":"print","args":["hi"],"line":1}]' | rachet-compiler
  rachet-compiler --commands-dir ./bin < program.json
  rachet-compiler --config rachet.yaml < program.json`,

		Args: cobra.NoArgs,

		// Errors are rendered by Execute (text or JSON), not by cobra.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: versionString(),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), cmd, flags)
		},
	}

	bindGlobalFlags(rootCmd)
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "",
		"Path to a .yaml/.yml/.toml config file (env: "+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&flags.commandsDir, "commands-dir", "",
		"Directory scanned for executable commands (default: "+command.DefaultDir+")")
	rootCmd.PersistentFlags().StringVar(&flags.timeout, "timeout", "",
		"Per-command timeout, e.g. 30s (default: none)")

	rootCmd.AddCommand(NewCommandsCommand(flags))

	return rootCmd
}

// runCompile is the main logic of rachet-compiler. Input is decoded before
// the commands directory is scanned.
func runCompile(ctx context.Context, cmd *cobra.Command, flags *compilerFlags) error {
	stderr := cmd.ErrOrStderr()

	// Step 1: Read and decode the token stream.
	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "reading stdin", err)
	}

	tokens, err := token.Decode(input)
	if errors.Is(err, token.ErrEmptyInput) {
		return model.NewCLIError(model.ExitGeneralError, "No JSON input provided via stdin")
	}
	if err != nil {
		fmt.Fprintf(stderr, "Input was: %s\n", input)
		return model.WrapCLIError(model.ExitInvalidInput, "parsing JSON input", err)
	}
	VerboseLog("Decoded %d tokens", len(tokens))

	// Step 2: Resolve configuration and discover commands.
	cfg, err := resolveConfig(cmd, flags)
	if err != nil {
		return err
	}

	registry, err := discoverCommands(stderr, cfg.CommandsDir)
	if err != nil {
		return model.WrapCLIError(model.ExitCodeOf(err), "initializing command executor", err)
	}

	// Step 3: Execute tokens in order, stopping at the first failure.
	runID := uuid.NewString()
	VerboseLog("Run %s: executing %d tokens", runID, len(tokens))

	executor := command.NewExecutor(registry, cmd.OutOrStdout(), stderr)
	executor.Timeout = cfg.CommandTimeout
	executor.RunID = runID
	executor.OnToken = func(tok model.Token) {
		VerboseLog("Executing %s", tok)
	}

	if err := executor.Run(ctx, tokens); err != nil {
		return model.WrapCLIError(model.ExitCodeOf(err), "execution failed", err)
	}
	return nil
}

// resolveConfig loads the config file and environment, then applies any
// flags the user set explicitly.
func resolveConfig(cmd *cobra.Command, flags *compilerFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, model.WrapCLIError(model.ExitGeneralError, "loading configuration", err)
	}

	if cmd.Flags().Changed("commands-dir") {
		cfg.CommandsDir = flags.commandsDir
	}
	if cmd.Flags().Changed("timeout") {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil {
			return config.Config{}, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("invalid --timeout %q", flags.timeout), err)
		}
		cfg.CommandTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, model.WrapCLIError(model.ExitGeneralError, "invalid configuration", err)
	}

	VerboseLog("Commands directory: %s", cfg.CommandsDir)
	if cfg.CommandTimeout > 0 {
		VerboseLog("Command timeout: %s", cfg.CommandTimeout)
	}
	return cfg, nil
}

// discoverCommands scans dir and reports the result. An empty registry is
// not an error, but it is always worth a warning.
func discoverCommands(stderr io.Writer, dir string) (*command.Registry, error) {
	registry, err := command.Discover(dir)
	if err != nil {
		return nil, err
	}

	if registry.Len() == 0 {
		fmt.Fprintf(stderr, "Warning: No executable commands found in '%s'\n", dir)
	} else {
		VerboseLog("Discovered commands: %v", registry.Names())
	}
	return registry, nil
}
