// Package filex contains small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) if missing and returns its path.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// DefaultDataDir returns the per-user data directory for the tool,
// honoring an explicit override when non-empty.
func DefaultDataDir(override string) (string, error) {
	if override != "" {
		return EnsureDir(override)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("user home dir: %w", err)
	}
	return EnsureDir(filepath.Join(home, ".mdimgup"))
}
