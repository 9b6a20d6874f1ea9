package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default task file name.
const DefaultConfigFile = ".relparse.yaml"

var (
	// ErrConfigNotFound is returned when the task file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrNoTasks is returned when a task file has no tasks list.
	ErrNoTasks = errors.New("invalid config: missing tasks")
)

// LoadConfigFile reads and decodes the task file at path. A missing file
// yields ErrConfigNotFound and a file without a tasks key yields ErrNoTasks.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cf.Tasks == nil {
		return nil, ErrNoTasks
	}
	return &cf, nil
}

// FindConfigFile returns the task file to use, or "" when there is none.
// An explicit configPath must exist. Otherwise .relparse.yaml in the working
// directory is preferred over config.yaml in the XDG config directory.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if fileExists(configPath) {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, c := range candidates {
		if fileExists(c) {
			return c
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
