package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load consults so tests are not affected
// by the developer's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvConfigPath, "RACHET_COMMANDS_DIR", "RACHET_COMMAND_TIMEOUT"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "compiler/commands", cfg.CommandsDir)
	assert.Zero(t, cfg.CommandTimeout)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "rachet.yaml", "commands_dir: /opt/rachet/commands\ncommand_timeout: 30s\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/rachet/commands", cfg.CommandsDir)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
}

func TestLoad_YMLPartial(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "rachet.yml", "command_timeout: 2m\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "compiler/commands", cfg.CommandsDir, "unset keys keep their defaults")
	assert.Equal(t, 2*time.Minute, cfg.CommandTimeout)
}

func TestLoad_EmptyYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "rachet.yaml", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_TOML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "rachet.toml", "commands_dir = \"cmds\"\ncommand_timeout = \"1500ms\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cmds", cfg.CommandsDir)
	assert.Equal(t, 1500*time.Millisecond, cfg.CommandTimeout)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "rachet.yaml", "commands_dir: from-env-file\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env-file", cfg.CommandsDir)
}

// TestLoad_EnvOverridesFile verifies environment variables win over the
// config file.
func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "rachet.yaml", "commands_dir: from-file\ncommand_timeout: 10s\n")
	t.Setenv("RACHET_COMMANDS_DIR", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.CommandsDir)
	assert.Equal(t, 10*time.Second, cfg.CommandTimeout, "unset env vars keep file values")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown yaml key",
			file:    "rachet.yaml",
			content: "command_dir: typo\n",
			wantErr: "field command_dir not found",
		},
		{
			name:    "unknown toml key",
			file:    "rachet.toml",
			content: "command_dir = \"typo\"\n",
			wantErr: "unknown keys: command_dir",
		},
		{
			name:    "invalid yaml duration",
			file:    "rachet.yaml",
			content: "command_timeout: soon\n",
			wantErr: "failed to parse config file",
		},
		{
			name:    "unsupported extension",
			file:    "rachet.json",
			content: "{}",
			wantErr: `unsupported config file extension ".json"`,
		},
		{
			name:    "empty commands dir",
			file:    "rachet.yaml",
			content: "commands_dir: \"  \"\n",
			wantErr: "commands_dir must not be empty",
		},
		{
			name:    "negative timeout",
			file:    "rachet.yaml",
			content: "command_timeout: -1s\n",
			wantErr: "command_timeout must not be negative",
		},
		{
			name:    "invalid env duration",
			file:    "rachet.yaml",
			content: "",
			env:     map[string]string{"RACHET_COMMAND_TIMEOUT": "forever"},
			wantErr: "parse env:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tt.file, tt.content)

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
