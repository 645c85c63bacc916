// Package paths provides centralized path resolution for devkit.
// This package has NO internal imports (only stdlib) to avoid import cycles.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	ConfigFileName  = "devkit.toml"
	PrefsFileName   = "prefs.json"
	MetricsFileName = "metrics.db"
	EnvFileName     = ".env"
)

// baseOverride is set by tests and by the DEVKIT_HOME environment variable.
var baseOverride string

// SetBaseDir overrides the data directory. An empty string restores the default.
func SetBaseDir(dir string) {
	baseOverride = dir
}

// BaseDir returns the devkit base directory (~/.devkit, or $DEVKIT_HOME).
func BaseDir() (string, error) {
	if baseOverride != "" {
		return baseOverride, nil
	}
	if env := os.Getenv("DEVKIT_HOME"); env != "" {
		return ExpandTilde(env)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".devkit"), nil
}

// DataPath returns a path within the devkit data directory.
func DataPath(subpath string) (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, subpath), nil
}

// ConfigPath returns the active devkit.toml path.
// Priority: ./devkit.toml (current dir) > <base>/devkit.toml
// Returns ("", nil) if no config exists - this is a valid state, not an error.
func ConfigPath() (string, error) {
	if _, err := os.Stat(ConfigFileName); err == nil {
		absPath, err := filepath.Abs(ConfigFileName)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		return absPath, nil
	}

	globalPath, err := DataPath(ConfigFileName)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(globalPath); err == nil {
		return globalPath, nil
	}
	return "", nil
}

// PrefsPath returns the location of the persisted theme preference.
func PrefsPath() (string, error) {
	return DataPath(PrefsFileName)
}

// MetricsPath returns the location of the usage metrics database.
func MetricsPath() (string, error) {
	return DataPath(MetricsFileName)
}

// EnvPaths returns candidate .env files, local first.
func EnvPaths() []string {
	candidates := []string{EnvFileName}
	if p, err := DataPath(EnvFileName); err == nil {
		candidates = append(candidates, p)
	}
	var existing []string
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			existing = append(existing, c)
		}
	}
	return existing
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// EnsureParentDir creates the parent directory of a file path if it doesn't exist.
func EnsureParentDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}

// ExpandTilde expands a path that starts with ~ to the user's home directory.
func ExpandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if len(path) == 1 {
		return home, nil
	}
	return filepath.Join(home, path[1:]), nil
}
