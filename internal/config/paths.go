// ABOUTME: Standard filesystem paths for mpv configuration
// ABOUTME: Resolves ~/.config/mpv-go/ honoring XDG_CONFIG_HOME

package config

import (
	"os"
	"path/filepath"
)

const appDirName = "mpv-go"

// GlobalDir returns the user config directory (~/.config/mpv-go/).
func GlobalDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", appDirName)
	}
	return filepath.Join(home, ".config", appDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), "config.yaml")
}

// EnsureDir creates a directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
