package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetHome returns the modelout home directory
// Priority order:
//  1. MODELOUT_HOME environment variable (if set)
//  2. .modelout under the current working directory
//
// The directory is created if it doesn't exist
func GetHome() (string, error) {
	home := os.Getenv("MODELOUT_HOME")
	if home == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		home = filepath.Join(cwd, ".modelout")
	}

	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create modelout home directory: %w", err)
	}
	return home, nil
}

// GetHistoryDBPath returns the history database path: the configured path
// when set, otherwise $MODELOUT_HOME/history/resolutions.db
func (c *Config) GetHistoryDBPath() (string, error) {
	if c.History.DBPath != "" {
		return c.History.DBPath, nil
	}

	home, err := GetHome()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, "history")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create history directory: %w", err)
	}
	return filepath.Join(dir, "resolutions.db"), nil
}
