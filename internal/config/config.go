// Package config resolves rachet-compiler settings.
//
// Sources are applied in increasing precedence: built-in defaults, an
// optional config file, then environment variables. Command-line flags
// are layered on top by the cli package.
//
// The config file format is chosen by extension: ".yaml"/".yml" uses
// gopkg.in/yaml.v3 and ".toml" uses github.com/BurntSushi/toml. Unknown
// keys are rejected in both formats so typos fail loudly.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/rachet/internal/command"
)

// EnvConfigPath names the environment variable that points at a config
// file when --config is not given.
const EnvConfigPath = "RACHET_CONFIG"

// Config holds the resolved settings for a compiler run.
type Config struct {
	// CommandsDir is scanned for executables.
	CommandsDir string `yaml:"commands_dir" toml:"commands_dir" env:"RACHET_COMMANDS_DIR"`

	// CommandTimeout bounds each external command. Zero disables it.
	CommandTimeout time.Duration `yaml:"command_timeout" toml:"command_timeout" env:"RACHET_COMMAND_TIMEOUT"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{CommandsDir: command.DefaultDir}
}

// Load resolves the configuration. path selects a config file; when it is
// empty, RACHET_CONFIG is consulted, and when both are empty no file is
// read.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv overlays environment variables onto target. Fields whose
// variable is unset keep their current value.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the resolved values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.CommandsDir) == "" {
		return errors.New("commands_dir must not be empty")
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("command_timeout must not be negative, got %s", c.CommandTimeout)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return decodeYAML(path, data, cfg)
	case ".toml":
		return decodeTOML(path, data, cfg)
	default:
		return fmt.Errorf("unsupported config file extension %q (valid: .yaml, .yml, .toml)", ext)
	}
}

func decodeYAML(path string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// An empty document decodes to io.EOF; treat it as "no settings".
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func decodeTOML(path string, data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("failed to parse config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}
