package command

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/shinji-kodama/rachet/internal/model"
)

// DefaultDir is the commands directory used when none is configured,
// relative to the working directory.
const DefaultDir = "compiler/commands"

// Registry maps command names to executable paths inside one directory.
// It is built once by Discover and is read-only afterwards.
type Registry struct {
	dir      string
	commands map[string]string
}

// Discover scans dir for executable files.
//
// Returns a model.CLIError with ExitCommandsDirNotFound if dir does not
// exist or is not a directory. Entries that cannot be stat'ed (for example
// dangling symlinks) are skipped.
func Discover(dir string) (*Registry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.NewCLIError(model.ExitCommandsDirNotFound,
				fmt.Sprintf("Commands directory '%s' not found", dir))
		}
		return nil, fmt.Errorf("failed to stat commands directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, model.NewCLIError(model.ExitCommandsDirNotFound,
			fmt.Sprintf("'%s' is not a directory", dir))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read commands directory %s: %w", dir, err)
	}

	r := &Registry{dir: dir, commands: make(map[string]string)}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		// os.Stat follows symlinks, so a link to an executable counts.
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		if name, ok := commandName(runtime.GOOS, entry.Name(), fi.Mode()); ok {
			r.commands[name] = path
		}
	}
	return r, nil
}

// commandName decides whether a regular file qualifies as a command on
// goos and returns its command name.
func commandName(goos, fileName string, mode fs.FileMode) (string, bool) {
	if goos == "windows" {
		name, ok := strings.CutSuffix(fileName, ".exe")
		if !ok || name == "" {
			return "", false
		}
		return name, true
	}
	if mode.Perm()&0o111 == 0 {
		return "", false
	}
	return fileName, true
}

// Lookup returns the executable path for name.
func (r *Registry) Lookup(name string) (string, bool) {
	path, ok := r.commands[name]
	return path, ok
}

// Names returns all discovered command names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of discovered commands.
func (r *Registry) Len() int {
	return len(r.commands)
}

// Dir returns the directory the registry was discovered from.
func (r *Registry) Dir() string {
	return r.dir
}
