package config

import (
	"os"
	"path/filepath"
)

// ProjectConfigPath is the project-level config file, relative to the
// working directory.
const ProjectConfigPath = ".flowgraph.yml"

// UserConfigPath returns the user-level config file path.
func UserConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.yml"), nil
}

// DefaultCacheDir returns the cache directory using the XDG convention
// (~/.cache/flowgraph/).
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}
