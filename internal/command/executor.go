package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/shinji-kodama/rachet/internal/model"
)

// PrintCommand is the name of the builtin that echoes its first argument.
// It shadows any executable of the same name in the commands directory.
const PrintCommand = "print"

// waitDelay bounds how long Execute waits for output pipes to close after
// a cancelled command has been killed.
const waitDelay = 2 * time.Second

// Environment variables set for every external command.
const (
	EnvRunID = "RACHET_RUN_ID"
	EnvLine  = "RACHET_LINE"
)

// Executor runs tokens against a Registry.
//
// Output of the builtin and of external commands goes to Stdout/Stderr,
// which default to the process streams.
type Executor struct {
	registry *Registry
	stdout   io.Writer
	stderr   io.Writer

	// Timeout bounds each external command. Zero means no limit.
	Timeout time.Duration

	// RunID is exported to children as RACHET_RUN_ID.
	RunID string

	// OnToken, if set, is called by Run before each token executes.
	OnToken func(model.Token)
}

// NewExecutor creates an Executor writing to stdout and stderr. Nil
// writers fall back to os.Stdout and os.Stderr.
func NewExecutor(registry *Registry, stdout, stderr io.Writer) *Executor {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Executor{registry: registry, stdout: stdout, stderr: stderr}
}

// Run executes tokens in order and returns the first failure.
func (e *Executor) Run(ctx context.Context, tokens []model.Token) error {
	for _, tok := range tokens {
		if e.OnToken != nil {
			e.OnToken(tok)
		}
		if err := e.Execute(ctx, tok); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs a single token. Errors are model.CLIError values whose
// message starts with "line N:".
func (e *Executor) Execute(ctx context.Context, tok model.Token) error {
	if tok.Command == PrintCommand {
		return e.print(tok)
	}

	path, ok := e.registry.Lookup(tok.Command)
	if !ok {
		fmt.Fprintf(e.stderr, "Available commands: %v\n", e.registry.Names())
		return model.NewCLIError(model.ExitUnknownCommand,
			fmt.Sprintf("line %d: unknown command '%s'", tok.Line, tok.Command))
	}
	return e.runExternal(ctx, tok, path)
}

func (e *Executor) print(tok model.Token) error {
	if len(tok.Args) == 0 {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("line %d: print command requires an argument", tok.Line))
	}
	_, err := fmt.Fprintln(e.stdout, tok.Args[0])
	return err
}

// runExternal starts the executable at path, waits for it, and forwards
// its captured stdout and stderr. Output is forwarded even when the
// command fails so the user sees its diagnostics.
func (e *Executor) runExternal(ctx context.Context, tok model.Token, path string) error {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	// #nosec G204: path comes from the commands directory scan
	cmd := exec.CommandContext(ctx, path, tok.Args...)
	cmd.Env = append(os.Environ(),
		EnvRunID+"="+e.RunID,
		fmt.Sprintf("%s=%d", EnvLine, tok.Line),
	)
	configureProcess(cmd)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	forward(e.stdout, stdout.Bytes())
	forward(e.stderr, stderr.Bytes())

	if runErr == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		// ExitCode is -1 when the child was killed by a signal,
		// including a timeout cancellation.
		return model.NewCLIError(model.ExitCommandFailed,
			fmt.Sprintf("line %d: command '%s' failed with exit code %d", tok.Line, tok.Command, exitErr.ExitCode()))
	}
	return model.WrapCLIError(model.ExitCommandFailed,
		fmt.Sprintf("line %d: failed to execute '%s'", tok.Line, tok.Command), runErr)
}

// forward writes captured output to w, replacing invalid UTF-8.
func forward(w io.Writer, data []byte) {
	if len(data) == 0 {
		return
	}
	_, _ = io.WriteString(w, strings.ToValidUTF8(string(data), "\uFFFD"))
}
