// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppName names the config directory and environment prefix.
const AppName = "wastewise"

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

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

	return os.ExpandEnv(path)
}

// Dir returns the application's config directory.
func Dir() string {
	return ExpandPath(filepath.Join("~", ".config", AppName))
}

// DatabasePath returns the configured database path, defaulting to the config directory.
func DatabasePath() string {
	if v := viper.GetString("database.path"); v != "" {
		return ExpandPath(v)
	}
	return filepath.Join(Dir(), AppName+".db")
}
