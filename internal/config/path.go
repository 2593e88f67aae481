// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}

// Dir returns the valet config directory, honoring XDG_CONFIG_HOME.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "valet")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "valet"
	}
	return filepath.Join(home, ".config", "valet")
}

// DataDir returns the valet data directory, honoring XDG_DATA_HOME.
// The usage ledger lives here by default.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "valet")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "valet"
	}
	return filepath.Join(home, ".local", "share", "valet")
}

// CacheDir returns the valet cache directory, honoring XDG_CACHE_HOME.
// The exchange rate cache lives here.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "valet")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "valet"
	}
	return filepath.Join(home, ".cache", "valet")
}
