// Package cli — cli_test.go holds helpers shared by the command tests and
// tests for the shared error rendering in root.go.
package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/rachet/internal/model"
)

// resetGlobals restores package-level flag state, which cobra binds to
// globals and which would otherwise leak between tests. It also clears the
// environment variables the compiler reads.
func resetGlobals(t *testing.T) {
	t.Helper()

	reset := func() {
		jsonOutput = false
		verbose = false
		logOutput = os.Stderr
	}
	reset()
	t.Cleanup(reset)

	for _, name := range []string{"RACHET_CONFIG", "RACHET_COMMANDS_DIR", "RACHET_COMMAND_TIMEOUT"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

// execute runs cmd with args and stdin, returning captured stdout/stderr.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	// cobra falls back to os.Args[1:] when args is nil.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeExecutable creates a /bin/sh script in dir. Tests using it are
// skipped on Windows.
func writeExecutable(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires POSIX shell scripts")
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	require.NoError(t, os.Chmod(path, 0o755))
	return path
}

func TestReportError_Text(t *testing.T) {
	resetGlobals(t)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "cli error without detail",
			err:  model.NewCLIError(model.ExitGeneralError, "No JSON input provided via stdin"),
			want: "Error: No JSON input provided via stdin\n",
		},
		{
			name: "cli error with detail",
			err: model.WrapCLIError(model.ExitCommandFailed, "execution failed",
				model.NewCLIError(model.ExitCommandFailed, "line 2: command 'fail' failed with exit code 3")),
			want: "Error: execution failed: line 2: command 'fail' failed with exit code 3\n",
		},
		{
			name: "plain error",
			err:  errors.New(`unknown command "foo" for "rachet-compiler"`),
			want: "Error: unknown command \"foo\" for \"rachet-compiler\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestReportError_JSON(t *testing.T) {
	resetGlobals(t)
	jsonOutput = true

	var buf bytes.Buffer
	reportError(&buf, model.WrapCLIError(model.ExitInvalidInput, "parsing JSON input", errors.New("unexpected end of JSON input")))

	assert.JSONEq(t, `{"error":{"message":"parsing JSON input","detail":"unexpected end of JSON input"}}`, buf.String())
}

func TestVerboseLog(t *testing.T) {
	resetGlobals(t)
	var buf bytes.Buffer
	logOutput = &buf

	VerboseLog("hidden %d", 1)
	assert.Empty(t, buf.String())

	verbose = true
	VerboseLog("shown %d", 2)
	assert.Equal(t, "[verbose] shown 2\n", buf.String())
}
